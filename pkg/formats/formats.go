// Package formats decodes 3D Studio (.3ds) scene files.
//
// A 3DS file is a tree of chunks. Every chunk starts with a 16-bit tag and a
// 32-bit size covering the header, the payload and all nested chunks. Decode
// walks that tree with one dispatch table per container kind and collects
// meshes, materials and the keyframer node hierarchy into a Scene.
//
// Structural damage that leaves no way to continue, such as a chunk that
// claims more bytes than the file holds, aborts the decode. Everything else
// (unknown chunks, short payloads, missing colors, unresolved material names)
// is logged through Options.Logger and replaced by a fallback value.
package formats
