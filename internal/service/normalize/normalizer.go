package normalize

import (
	"bytes"
	"image"
	"image/draw"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jgivc/photozip/internal/config"

	_ "golang.org/x/image/webp"
)

const (
	serviceName = "normalize"
)

// Normalizer decodes fetched image bytes, upscales small images to the
// configured minimum dimension with a Lanczos filter, sharpens upscaled
// results with an unsharp mask and re-encodes to JPEG.
//
// Normalization never fails from the caller's point of view: if the bytes
// cannot be decoded or re-encoded, the original payload is returned verbatim.
type Normalizer struct {
	cfg *config.NormalizerConfig
	log *slog.Logger
}

func NewNormalizer(cfg *config.NormalizerConfig, log *slog.Logger) *Normalizer {
	return &Normalizer{
		cfg: cfg,
		log: log.With(slog.String("service", serviceName)),
	}
}

// Normalize returns the processed payload and whether a re-encode happened.
// When it returns false the payload is the input slice, untouched.
func (n *Normalizer) Normalize(raw []byte) ([]byte, bool) {
	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		n.log.Debug("Cannot decode image, keep original bytes", slog.Any("error", err))

		return raw, false
	}

	img := n.flatten(src)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	resized := false
	if min(w, h) < n.cfg.MinDimension {
		scale := float64(n.cfg.MinDimension) / float64(min(w, h))

		// The smaller side lands exactly on MinDimension, the larger one is
		// scaled by the same factor and truncated. Truncating both would let
		// float error drop a side one pixel under the floor.
		newW, newH := n.cfg.MinDimension, n.cfg.MinDimension
		switch {
		case w < h:
			newH = int(float64(h) * scale)
		case h < w:
			newW = int(float64(w) * scale)
		}

		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
		resized = true
	}

	if resized {
		img = unsharpMask(img, n.cfg.SharpenRadius, n.cfg.SharpenPercent)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.cfg.JPEGQuality)); err != nil {
		n.log.Error("Cannot encode image, keep original bytes", slog.Any("error", err))

		return raw, false
	}

	return buf.Bytes(), true
}

// flatten drops per-pixel transparency and palette indexing. Translucent
// pixels are composited onto black, matching premultiplied-alpha semantics.
func (n *Normalizer) flatten(src image.Image) *image.NRGBA {
	type opaquer interface {
		Opaque() bool
	}

	if o, ok := src.(opaquer); ok && o.Opaque() {
		return imaging.Clone(src)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)

	return dst
}

// unsharpMask amplifies the difference between the image and its gaussian
// blur: out = orig + amount*(orig - blur), clamped per channel. Alpha is
// left alone, the image is opaque by the time it gets here.
func unsharpMask(img *image.NRGBA, radius, percent int) *image.NRGBA {
	blurred := imaging.Blur(img, float64(radius))
	amount := float64(percent) / 100

	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			orig := float64(img.Pix[i+c])
			blur := float64(blurred.Pix[i+c])

			v := int(orig + amount*(orig-blur))
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}

			out.Pix[i+c] = uint8(v)
		}
	}

	return out
}
