package formats

import "github.com/Faultbox/max3ds/pkg/chunk"

// Container chunks.
const (
	tagMain        chunk.Tag = 0x4D4D
	tagEditor      chunk.Tag = 0x3D3D
	tagObjectBlock chunk.Tag = 0x4000
	tagMeshData    chunk.Tag = 0x4100
	tagFaceList    chunk.Tag = 0x4120
	tagMaterial    chunk.Tag = 0xAFFF
	tagKeyframer   chunk.Tag = 0xB000
	tagTrackInfo   chunk.Tag = 0xB002
)

// Scene-level leaves.
const (
	tagVersion        chunk.Tag = 0x0002
	tagMasterScale    chunk.Tag = 0x0100
	tagBackground     chunk.Tag = 0x1100
	tagUseBackground  chunk.Tag = 0x1101
	tagAmbientColor   chunk.Tag = 0x2100
	tagMeshVertices   chunk.Tag = 0x4110
	tagFaceMaterial   chunk.Tag = 0x4130
	tagMeshTexCoords  chunk.Tag = 0x4140
	tagSmoothingGroup chunk.Tag = 0x4150
	tagMeshMatrix     chunk.Tag = 0x4160
)

// Color and percentage encodings.
const (
	tagColorF      chunk.Tag = 0x0010
	tagColor24     chunk.Tag = 0x0011
	tagLinColor24  chunk.Tag = 0x0012
	tagLinColorF   chunk.Tag = 0x0013
	tagPercentWord chunk.Tag = 0x0030
	tagPercentF    chunk.Tag = 0x0031
)

// Material block.
const (
	tagMatName         chunk.Tag = 0xA000
	tagMatAmbient      chunk.Tag = 0xA010
	tagMatDiffuse      chunk.Tag = 0xA020
	tagMatSpecular     chunk.Tag = 0xA030
	tagMatShininess    chunk.Tag = 0xA040
	tagMatShinStrength chunk.Tag = 0xA041
	tagMatTransparency chunk.Tag = 0xA050
	tagMatSelfIllum    chunk.Tag = 0xA080
	tagMatTwoSided     chunk.Tag = 0xA081
	tagMatSelfIllumPct chunk.Tag = 0xA084
	tagMatShading      chunk.Tag = 0xA100
	tagMatTexture      chunk.Tag = 0xA200
	tagMatSpecularMap  chunk.Tag = 0xA204
	tagMatOpacityMap   chunk.Tag = 0xA210
	tagMatBumpMap      chunk.Tag = 0xA230
	tagMatShininessMap chunk.Tag = 0xA33C
	tagMatSelfIllumMap chunk.Tag = 0xA33D
	tagMapFile         chunk.Tag = 0xA300
	tagMapTiling       chunk.Tag = 0xA351
	tagMapUScale       chunk.Tag = 0xA354
	tagMapVScale       chunk.Tag = 0xA356
	tagMapUOffset      chunk.Tag = 0xA358
	tagMapVOffset      chunk.Tag = 0xA35A
	tagMapRotation     chunk.Tag = 0xA35C
)

// Keyframer hierarchy block.
const (
	tagNodeHeader chunk.Tag = 0xB010
	tagPivot      chunk.Tag = 0xB013
	tagPosTrack   chunk.Tag = 0xB020
	tagRotTrack   chunk.Tag = 0xB021
	tagScaleTrack chunk.Tag = 0xB022
)

// textureSlotTags maps each texture sub-chunk to the slot it fills.
var textureSlotTags = map[chunk.Tag]TextureSlot{
	tagMatTexture:      SlotDiffuse,
	tagMatSpecularMap:  SlotSpecular,
	tagMatOpacityMap:   SlotOpacity,
	tagMatBumpMap:      SlotBump,
	tagMatShininessMap: SlotShininess,
	tagMatSelfIllumMap: SlotSelfIllumination,
}
