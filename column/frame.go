package column

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/bytecol/compress"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/hash"
	"github.com/arloliu/bytecol/internal/options"
	"github.com/arloliu/bytecol/internal/pool"
	"github.com/arloliu/bytecol/section"
)

// FrameConfig holds the settings of a frame encoder.
type FrameConfig struct {
	compression format.CompressionType
}

// FrameOption is a functional option for MarshalFrame and MarshalForm.
type FrameOption = options.Option[*FrameConfig]

// WithCompression selects the body compression. Bodies that do not shrink
// are stored uncompressed.
func WithCompression(compression format.CompressionType) FrameOption {
	return options.New(func(c *FrameConfig) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
		}
		c.compression = compression

		return nil
	})
}

// MarshalFrame serializes the column into a single frame.
func (c *Column) MarshalFrame(opts ...FrameOption) ([]byte, error) {
	form, err := c.ToSerializedForm()
	if err != nil {
		return nil, err
	}

	return MarshalForm(&form, opts...)
}

// MarshalForm flattens form into a frame: a section.FrameHeader followed by
// Buffer and StringBuffer, compressed together when requested.
func MarshalForm(form *SerializedForm, opts ...FrameOption) ([]byte, error) {
	cfg := &FrameConfig{compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	if len(form.Buffer) > math.MaxUint32 || len(form.StringBuffer) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: buffers too large for a frame", errs.ErrCapacityExceeded)
	}

	header := section.NewFrameHeader()
	header.Flag.SetByteOrder(form.ByteOrder)
	header.Flag.SetStrategy(form.Strategy)
	header.Length = form.Length
	header.ByteOffset = form.ByteOffset
	header.StringOffset = form.StringOffset
	header.StringCount = form.StringCount
	header.Separator = uint32(form.Separator) //nolint:gosec
	header.BufferSize = uint32(len(form.Buffer))             //nolint:gosec
	header.StringBufferSize = uint32(len(form.StringBuffer)) //nolint:gosec
	header.Checksum = hash.Parts(form.Buffer, form.StringBuffer)

	body, compression, err := compressBody(form, cfg.compression)
	if err != nil {
		return nil, err
	}
	if len(body) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: frame body of %d bytes", errs.ErrCapacityExceeded, len(body))
	}
	header.Flag.SetCompression(compression)
	header.BodySize = uint32(len(body)) //nolint:gosec

	out := make([]byte, section.HeaderSize+len(body))
	header.WriteTo(out)
	copy(out[section.HeaderSize:], body)

	return out, nil
}

// compressBody returns the stored body and the compression actually used.
func compressBody(form *SerializedForm, compression format.CompressionType) ([]byte, format.CompressionType, error) {
	raw := len(form.Buffer) + len(form.StringBuffer)

	if compression == format.CompressionNone || raw == 0 {
		body := make([]byte, raw)
		copy(body, form.Buffer)
		copy(body[len(form.Buffer):], form.StringBuffer)

		return body, format.CompressionNone, nil
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, 0, err
	}

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)

	scratch.Grow(raw)
	_, _ = scratch.Write(form.Buffer)
	_, _ = scratch.Write(form.StringBuffer)

	packed, err := codec.Compress(scratch.Bytes())
	if errors.Is(err, compress.ErrIncompressible) || (err == nil && len(packed) >= raw) {
		return compressBody(form, format.CompressionNone)
	}
	if err != nil {
		return nil, 0, err
	}

	return packed, compression, nil
}

// UnmarshalForm parses a frame produced by MarshalForm.
//
// An uncompressed frame is not copied: the form's buffers alias data.
func UnmarshalForm(data []byte) (SerializedForm, error) {
	var header section.FrameHeader
	if err := header.Parse(data); err != nil {
		return SerializedForm{}, err
	}

	body := data[section.HeaderSize:]
	if uint64(len(body)) < uint64(header.BodySize) {
		return SerializedForm{}, fmt.Errorf("%w: body has %d bytes, header declares %d",
			errs.ErrFrameTruncated, len(body), header.BodySize)
	}
	body = body[:header.BodySize:header.BodySize]

	codec, err := compress.GetCodec(header.Flag.GetCompression())
	if err != nil {
		return SerializedForm{}, err
	}

	raw, err := codec.Decompress(body, header.RawBodySize())
	if err != nil {
		return SerializedForm{}, fmt.Errorf("%w: %w", errs.ErrInvalidForm, err)
	}

	if sum := hash.Bytes(raw); sum != header.Checksum {
		return SerializedForm{}, fmt.Errorf("%w: got %#016x, header %#016x",
			errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	split := int(header.BufferSize)
	form := SerializedForm{
		Strategy:     header.Flag.GetStrategy(),
		ByteOrder:    header.Flag.ByteOrder(),
		Buffer:       raw[:split:split],
		StringBuffer: raw[split:len(raw):len(raw)],
		ByteOffset:   header.ByteOffset,
		StringOffset: header.StringOffset,
		StringCount:  header.StringCount,
		Separator:    rune(header.Separator), //nolint:gosec
		Length:       header.Length,
	}

	if err := form.Validate(); err != nil {
		return SerializedForm{}, err
	}

	return form, nil
}

// UnmarshalFrame parses a frame and creates a column over it.
func UnmarshalFrame(data []byte, opts ...Option) (*Column, error) {
	form, err := UnmarshalForm(data)
	if err != nil {
		return nil, err
	}

	return FromSerializedForm(form, opts...)
}
