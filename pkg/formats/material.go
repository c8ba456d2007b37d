package formats

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/max3ds/pkg/chunk"
	"github.com/Faultbox/max3ds/pkg/math"
)

// Texture tiling flags.
const (
	tileMirror    = 0x0002
	tileDecal     = 0x0001
	tileNoWrap    = 0x0010
	tileClampMask = tileDecal | tileNoWrap
)

func materialHandlers() handlerTable {
	t := handlerTable{
		tagMatName:         (*decoder).readMaterialName,
		tagMatAmbient:      colorField(func(m *Material) *Color { return &m.Ambient }, FallbackReflective),
		tagMatDiffuse:      colorField(func(m *Material) *Color { return &m.Diffuse }, FallbackReflective),
		tagMatSpecular:     colorField(func(m *Material) *Color { return &m.Specular }, FallbackReflective),
		tagMatSelfIllum:    colorField(func(m *Material) *Color { return &m.Emissive }, FallbackEmissive),
		tagMatTransparency: (*decoder).readTransparency,
		tagMatShininess:    (*decoder).readShininess,
		tagMatShinStrength: (*decoder).readShininessStrength,
		tagMatSelfIllumPct: (*decoder).readSelfIllumination,
		tagMatShading:      (*decoder).readShading,
		tagMatTwoSided:     (*decoder).readTwoSided,
	}
	for tag, slot := range textureSlotTags {
		t[tag] = textureSlot(slot)
	}
	return t
}

func textureHandlers() handlerTable {
	return handlerTable{
		tagMapFile:     (*decoder).readMapFile,
		tagPercentF:    (*decoder).readBlend,
		tagPercentWord: (*decoder).readBlend,
		tagMapUScale:   textureScale(func(t *Texture) *float32 { return &t.ScaleU }),
		tagMapVScale:   textureScale(func(t *Texture) *float32 { return &t.ScaleV }),
		tagMapUOffset:  textureFloat(func(t *Texture) *float32 { return &t.OffsetU }),
		tagMapVOffset:  textureFloat(func(t *Texture) *float32 { return &t.OffsetV }),
		tagMapRotation: textureFloat(func(t *Texture) *float32 { return &t.Rotation }),
		tagMapTiling:   (*decoder).readTiling,
	}
}

func (d *decoder) readMaterial(_ chunk.Header, c *chunk.Cursor) error {
	m := newMaterial()
	d.material = &m
	defer func() { d.material = nil }()

	if err := d.walk(c, d.materialTable, "material"); err != nil {
		return err
	}
	d.scene.Materials = append(d.scene.Materials, m)
	return nil
}

func (d *decoder) readMaterialName(h chunk.Header, c *chunk.Cursor) error {
	d.material.Name = d.str(c, h, "material name")
	return nil
}

// colorField returns a handler storing a color chunk into the field picked
// from the current material.
func colorField(field func(m *Material) *Color, fallback Color) handler {
	return func(d *decoder, h chunk.Header, c *chunk.Cursor) error {
		col, err := d.readColor(h, c, true, fallback)
		*field(d.material) = col
		return err
	}
}

func (d *decoder) readTransparency(h chunk.Header, c *chunk.Cursor) error {
	v, ok, err := d.readPercentage(h, c)
	if ok {
		d.material.Transparency = 1 - percentScale(v)
	} else {
		d.material.Transparency = 1
	}
	return err
}

// percentScale returns v*65535/100 with the product rounded to float32
// before the division.
func percentScale(v float32) float32 {
	return float32(v*65535) / 100
}

func (d *decoder) readShininess(h chunk.Header, c *chunk.Cursor) error {
	v, ok, err := d.readPercentage(h, c)
	if ok {
		d.material.Shininess = v * 65535
	} else {
		d.material.Shininess = 0
	}
	return err
}

func (d *decoder) readShininessStrength(h chunk.Header, c *chunk.Cursor) error {
	v, ok, err := d.readPercentage(h, c)
	if ok {
		d.material.ShininessStrength = percentScale(v)
	} else {
		d.material.ShininessStrength = 0
	}
	return err
}

func (d *decoder) readSelfIllumination(h chunk.Header, c *chunk.Cursor) error {
	v, ok, err := d.readPercentage(h, c)
	if ok {
		d.material.SelfIllumination = percentScale(v)
	} else {
		d.material.SelfIllumination = 0
	}
	return err
}

func (d *decoder) readShading(_ chunk.Header, c *chunk.Cursor) error {
	if v := c.Uint16(); c.Err() == nil {
		d.material.Shading = ShadingMode(v)
	}
	return nil
}

func (d *decoder) readTwoSided(chunk.Header, *chunk.Cursor) error {
	d.material.TwoSided = true
	return nil
}

// textureSlot returns a handler decoding a texture block into slot.
func textureSlot(slot TextureSlot) handler {
	return func(d *decoder, _ chunk.Header, c *chunk.Cursor) error {
		t := newTexture()
		d.texture = t
		defer func() { d.texture = nil }()

		if err := d.walk(c, d.textureTable, slot.String()+" map"); err != nil {
			return err
		}
		d.material.Textures[slot] = t
		return nil
	}
}

func (d *decoder) readMapFile(h chunk.Header, c *chunk.Cursor) error {
	d.texture.MapName = d.str(c, h, "texture map name")
	return nil
}

func (d *decoder) readBlend(h chunk.Header, c *chunk.Cursor) error {
	switch h.Tag {
	case tagPercentF:
		if v, ok := readFloat(c); ok {
			d.texture.Blend = v
		}
	case tagPercentWord:
		if v := c.Int16(); c.Err() == nil {
			d.texture.Blend = float32(v) / 100
		}
	}
	return nil
}

func textureFloat(field func(t *Texture) *float32) handler {
	return func(d *decoder, _ chunk.Header, c *chunk.Cursor) error {
		if v, ok := readFloat(c); ok {
			*field(d.texture) = v
		}
		return nil
	}
}

// textureScale is textureFloat with a zero scale corrected to 1.
func textureScale(field func(t *Texture) *float32) handler {
	return func(d *decoder, h chunk.Header, c *chunk.Cursor) error {
		v, ok := readFloat(c)
		if !ok {
			return nil
		}
		if v == 0 {
			d.log.Warn("texture scale is zero, using 1",
				zap.Stringer("tag", h.Tag),
				zap.Int("offset", h.Offset))
			v = 1
		}
		*field(d.texture) = v
		return nil
	}
}

func (d *decoder) readTiling(_ chunk.Header, c *chunk.Cursor) error {
	flags := c.Uint16()
	if c.Err() != nil {
		return nil
	}
	switch {
	case flags&tileMirror != 0:
		d.texture.Wrap = WrapMirror
	case flags&tileClampMask == tileClampMask:
		d.texture.Wrap = WrapClamp
	default:
		d.texture.Wrap = WrapRepeat
	}
	return nil
}

// readColor scans the sub-chunks of a color chunk for the first one in an
// accepted encoding. Percent encodings are accepted only when acceptPercent
// is set. If none is found, or the one found is too short, fallback is
// returned and a warning logged.
func (d *decoder) readColor(h chunk.Header, c *chunk.Cursor, acceptPercent bool, fallback Color) (Color, error) {
	for c.Remaining() > 0 {
		sub, err := chunk.ReadHeader(c)
		if errors.Is(err, chunk.ErrNoChunk) {
			break
		}
		if err != nil {
			return fallback, err
		}

		payload := c.Window(sub.End())
		c.Seek(sub.End())

		switch {
		case sub.Tag == tagColorF || sub.Tag == tagLinColorF:
			if payload.Remaining() < 12 {
				return d.colorFallback(h, fallback), nil
			}
			col := Color{payload.Float32(), payload.Float32(), payload.Float32()}
			if sub.Tag == tagLinColorF {
				col = gammaCorrect(col)
			}
			return col, nil

		case sub.Tag == tagColor24 || sub.Tag == tagLinColor24:
			if payload.Remaining() < 3 {
				return d.colorFallback(h, fallback), nil
			}
			b := payload.Bytes(3)
			col := Color{float32(b[0]) / 255, float32(b[1]) / 255, float32(b[2]) / 255}
			if sub.Tag == tagLinColor24 {
				col = gammaCorrect(col)
			}
			return col, nil

		case acceptPercent && sub.Tag == tagPercentF:
			if payload.Remaining() < 4 {
				return d.colorFallback(h, fallback), nil
			}
			return Gray(payload.Float32()), nil

		case acceptPercent && sub.Tag == tagPercentWord:
			if payload.Remaining() < 1 {
				return d.colorFallback(h, fallback), nil
			}
			return Gray(float32(payload.Uint8()) / 255), nil
		}
	}
	return d.colorFallback(h, fallback), nil
}

func (d *decoder) colorFallback(h chunk.Header, fallback Color) Color {
	d.log.Warn("unable to read color value, using fallback",
		zap.Stringer("tag", h.Tag),
		zap.Int("offset", h.Offset))
	return fallback
}

func gammaCorrect(c Color) Color {
	return Color{math.GammaCorrect(c.R), math.GammaCorrect(c.G), math.GammaCorrect(c.B)}
}

// readPercentage reads the first sub-chunk of a percentage chunk. ok is false
// if it is missing, too short or not a percentage encoding.
func (d *decoder) readPercentage(h chunk.Header, c *chunk.Cursor) (v float32, ok bool, err error) {
	defer func() {
		if !ok && err == nil {
			d.log.Warn("unable to read percentage value, using fallback",
				zap.Stringer("tag", h.Tag),
				zap.Int("offset", h.Offset))
		}
	}()

	if c.Remaining() == 0 {
		return 0, false, nil
	}
	sub, err := chunk.ReadHeader(c)
	if errors.Is(err, chunk.ErrNoChunk) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	payload := c.Window(sub.End())
	switch sub.Tag {
	case tagPercentF:
		v = payload.Float32()
	case tagPercentWord:
		v = float32(payload.Int16()) / 65535
	default:
		return 0, false, nil
	}
	if payload.Err() != nil {
		return 0, false, nil
	}
	return v, true, nil
}
