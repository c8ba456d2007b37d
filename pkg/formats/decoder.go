package formats

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/max3ds/pkg/chunk"
	"github.com/Faultbox/max3ds/pkg/encoding"
	"github.com/Faultbox/max3ds/pkg/scenegraph"
)

// MinFileSize is the smallest buffer Decode accepts.
const MinFileSize = 16

// ErrFileTooSmall is returned for buffers shorter than MinFileSize.
var ErrFileTooSmall = errors.New("3DS file is too small")

// Options configures a decode.
type Options struct {
	// Logger receives soft-error warnings. Nil disables logging.
	Logger *zap.Logger

	// IgnorePivot is recorded on the Scene for the materializer.
	IgnorePivot bool

	// SkipKeyframes skips position, rotation and scaling tracks. The node
	// hierarchy is still built.
	SkipKeyframes bool

	// Charset decodes chunk strings. Empty means encoding.DefaultCharset.
	Charset encoding.Charset
}

// handler decodes the payload of one chunk. The cursor is limited to the
// chunk's payload; bytes the handler leaves unread are skipped.
type handler func(d *decoder, h chunk.Header, c *chunk.Cursor) error

// handlerTable routes child chunks of one container kind by tag. Tags not in
// the table are skipped whole.
type handlerTable map[chunk.Tag]handler

// decoder holds the state of one decode. It is never shared.
type decoder struct {
	log     *zap.Logger
	charset encoding.Charset
	scene   *Scene
	nodes   *scenegraph.Builder

	object   string    // name of the object block being decoded
	mesh     *Mesh     // mesh of the object block being decoded
	material *Material // material block being decoded
	texture  *Texture  // texture block being decoded

	mainTable, editorTable, objectTable, objectBlockTable, meshDataTable,
	faceListTable, materialTable, textureTable, keyframerTable, hierarchyTable handlerTable
}

// Decode decodes a complete 3DS file held in buf.
func Decode(buf []byte, opts Options) (*Scene, error) {
	if len(buf) < MinFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooSmall, len(buf))
	}

	d := newDecoder(opts)
	if err := d.walk(chunk.NewCursor(buf), d.mainTable, "file"); err != nil {
		return nil, fmt.Errorf("decoding 3DS: %w", err)
	}

	d.scene.Nodes = d.nodes.Graph()
	return d.scene, nil
}

// DecodeFile reads a 3DS file from disk and decodes it.
func DecodeFile(path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading 3DS file: %w", err)
	}
	return Decode(data, opts)
}

func newDecoder(opts Options) *decoder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	charset := opts.Charset
	if charset == "" {
		charset = encoding.DefaultCharset
	}

	d := &decoder{
		log:     log,
		charset: charset,
		scene: &Scene{
			MasterScale: 1,
			IgnorePivot: opts.IgnorePivot,
		},
		nodes: scenegraph.NewBuilder(),
	}

	d.mainTable = handlerTable{
		tagMain: container("main", &d.editorTable),
	}
	d.editorTable = handlerTable{
		tagEditor:    container("editor", &d.objectTable),
		tagKeyframer: container("keyframer", &d.keyframerTable),
		tagVersion:   (*decoder).readVersion,
	}
	d.objectTable = handlerTable{
		tagObjectBlock:   (*decoder).readObjectBlock,
		tagMaterial:      (*decoder).readMaterial,
		tagAmbientColor:  (*decoder).readAmbient,
		tagBackground:    (*decoder).readBackground,
		tagUseBackground: (*decoder).readUseBackground,
		tagMasterScale:   (*decoder).readMasterScale,
		tagKeyframer:     container("keyframer", &d.keyframerTable),
	}
	d.objectBlockTable = handlerTable{
		tagMeshData: (*decoder).readMeshData,
	}
	d.meshDataTable = handlerTable{
		tagMeshVertices:  (*decoder).readVertices,
		tagMeshMatrix:    (*decoder).readMatrix,
		tagMeshTexCoords: (*decoder).readTexCoords,
		tagFaceList:      (*decoder).readFaceList,
	}
	d.faceListTable = handlerTable{
		tagSmoothingGroup: (*decoder).readSmoothingGroups,
		tagFaceMaterial:   (*decoder).readFaceMaterial,
	}
	d.materialTable = materialHandlers()
	d.textureTable = textureHandlers()
	d.keyframerTable = handlerTable{
		tagTrackInfo: container("hierarchy", &d.hierarchyTable),
	}
	d.hierarchyTable = handlerTable{
		tagNodeHeader: (*decoder).readNodeHeader,
		tagPivot:      (*decoder).readPivot,
	}
	if !opts.SkipKeyframes {
		d.hierarchyTable[tagPosTrack] = (*decoder).readPositionTrack
		d.hierarchyTable[tagRotTrack] = (*decoder).readRotationTrack
		d.hierarchyTable[tagScaleTrack] = (*decoder).readScaleTrack
	}
	return d
}

// container returns a handler that walks the payload as a list of children
// routed through *table. The table is resolved at call time so tables can
// refer to each other.
func container(name string, table *handlerTable) handler {
	return func(d *decoder, _ chunk.Header, c *chunk.Cursor) error {
		return d.walk(c, *table, name)
	}
}

// walk iterates the children of one container until its byte budget, the
// cursor's window, is used up. Each child is handed a cursor limited to its
// own end; a child whose declared end passes the container's end is clamped.
func (d *decoder) walk(c *chunk.Cursor, table handlerTable, name string) error {
	for c.Remaining() > 0 {
		h, err := chunk.ReadHeader(c)
		if errors.Is(err, chunk.ErrNoChunk) {
			d.log.Warn("trailing bytes too short for a chunk header",
				zap.String("container", name),
				zap.Int("offset", c.Pos()),
				zap.Int("bytes", c.Remaining()))
			c.Seek(c.End())
			return nil
		}
		if err != nil {
			return err
		}

		end := h.End()
		if end > c.End() {
			d.log.Warn("chunk overruns its container, clamping",
				zap.String("container", name),
				zap.Stringer("tag", h.Tag),
				zap.Int("offset", h.Offset),
				zap.Int("overrun", end-c.End()))
			end = c.End()
		}

		fn, ok := table[h.Tag]
		if !ok {
			d.log.Debug("skipping chunk",
				zap.String("container", name),
				zap.Stringer("tag", h.Tag),
				zap.Uint32("size", h.Size))
			c.Seek(end)
			continue
		}

		payload := c.Window(end)
		if err := fn(d, h, payload); err != nil {
			return err
		}
		if payload.Err() != nil {
			d.log.Warn("chunk payload shorter than its contents",
				zap.String("container", name),
				zap.Stringer("tag", h.Tag),
				zap.Int("offset", h.Offset))
		}
		c.Seek(end)
	}
	return nil
}

// str reads a zero-terminated string bounded by the cursor's window.
func (d *decoder) str(c *chunk.Cursor, h chunk.Header, what string) string {
	raw, ok := c.CString()
	if !ok {
		d.log.Warn("string is not terminated inside its chunk, truncating",
			zap.String("field", what),
			zap.Stringer("tag", h.Tag),
			zap.Int("offset", h.Offset))
	}
	return d.charset.Decode(raw)
}

func (d *decoder) readVersion(h chunk.Header, c *chunk.Cursor) error {
	if c.Remaining() < 2 {
		d.log.Warn("invalid version chunk", zap.Int("offset", h.Offset))
		return nil
	}
	d.scene.Version = c.Uint16()
	d.log.Info("3DS file version", zap.Uint16("version", d.scene.Version))
	return nil
}

func (d *decoder) readMasterScale(_ chunk.Header, c *chunk.Cursor) error {
	if v, ok := readFloat(c); ok {
		d.scene.MasterScale = v
	}
	return nil
}

func (d *decoder) readBackground(h chunk.Header, c *chunk.Cursor) error {
	d.scene.BackgroundImage = d.str(c, h, "background image")
	return nil
}

func (d *decoder) readUseBackground(chunk.Header, *chunk.Cursor) error {
	d.scene.HasBackground = true
	return nil
}

func (d *decoder) readAmbient(h chunk.Header, c *chunk.Cursor) error {
	col, err := d.readColor(h, c, true, FallbackEmissive)
	d.scene.Ambient = col
	return err
}

// readFloat reads one float and reports whether it was fully present.
func readFloat(c *chunk.Cursor) (float32, bool) {
	v := c.Float32()
	return v, c.Err() == nil
}
