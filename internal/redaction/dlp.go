package redaction

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	dlp "cloud.google.com/go/dlp/apiv2"
	"cloud.google.com/go/dlp/apiv2/dlppb"
	"github.com/googleapis/gax-go/v2"
)

// dlpAPI is the subset of the DLP client the detector calls.
type dlpAPI interface {
	InspectContent(ctx context.Context, req *dlppb.InspectContentRequest, opts ...gax.CallOption) (*dlppb.InspectContentResponse, error)
	RedactImage(ctx context.Context, req *dlppb.RedactImageRequest, opts ...gax.CallOption) (*dlppb.RedactImageResponse, error)
	Close() error
}

type dlpDetector struct {
	api        dlpAPI
	parent     string
	inspect    *dlppb.InspectConfig
	redactions []*dlppb.RedactImageRequest_ImageRedactionConfig
}

// newDLP uses Application Default Credentials.
func newDLP(ctx context.Context, cfg *Config) (*dlpDetector, error) {
	client, err := dlp.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create dlp client: %w", err)
	}
	return newDLPDetector(client, cfg), nil
}

func newDLPDetector(api dlpAPI, cfg *Config) *dlpDetector {
	infoTypes := make([]*dlppb.InfoType, len(cfg.InfoTypes))
	redactions := make([]*dlppb.RedactImageRequest_ImageRedactionConfig, len(cfg.InfoTypes))
	for i, name := range cfg.InfoTypes {
		infoTypes[i] = &dlppb.InfoType{Name: name}
		redactions[i] = &dlppb.RedactImageRequest_ImageRedactionConfig{
			Target:         &dlppb.RedactImageRequest_ImageRedactionConfig_InfoType{InfoType: infoTypes[i]},
			RedactionColor: &dlppb.Color{},
		}
	}

	return &dlpDetector{
		api:    api,
		parent: fmt.Sprintf("projects/%s/locations/%s", cfg.Project, cfg.Location),
		inspect: &dlppb.InspectConfig{
			InfoTypes:     infoTypes,
			MinLikelihood: dlppb.Likelihood(dlppb.Likelihood_value[cfg.MinLikelihood]),
		},
		redactions: redactions,
	}
}

func (d *dlpDetector) findText(ctx context.Context, text string) ([]span, error) {
	resp, err := d.api.InspectContent(ctx, &dlppb.InspectContentRequest{
		Parent:        d.parent,
		InspectConfig: d.inspect,
		Item:          &dlppb.ContentItem{DataItem: &dlppb.ContentItem_Value{Value: text}},
	})
	if err != nil {
		return nil, fmt.Errorf("dlp inspect: %w", err)
	}

	result := resp.GetResult()
	if result.GetFindingsTruncated() {
		return nil, fmt.Errorf("%w: dlp findings truncated", ErrUnredactable)
	}

	var spans []span
	for _, f := range result.GetFindings() {
		r := f.GetLocation().GetByteRange()
		if r == nil {
			continue
		}
		spans = append(spans, span{start: int(r.GetStart()), end: int(r.GetEnd())})
	}
	return spans, nil
}

func (d *dlpDetector) redactImage(ctx context.Context, img image.Image) (image.Image, int, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, 0, err
	}

	resp, err := d.api.RedactImage(ctx, &dlppb.RedactImageRequest{
		Parent:                d.parent,
		InspectConfig:         d.inspect,
		ImageRedactionConfigs: d.redactions,
		IncludeFindings:       true,
		ByteItem: &dlppb.ByteContentItem{
			Type: dlppb.ByteContentItem_IMAGE_PNG,
			Data: data,
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("dlp redact image: %w", err)
	}

	n := len(resp.GetInspectResult().GetFindings())
	if n == 0 {
		return img, 0, nil
	}

	redacted, err := png.Decode(bytes.NewReader(resp.GetRedactedImage()))
	if err != nil {
		return nil, 0, fmt.Errorf("decode redacted image: %w", err)
	}
	return redacted, n, nil
}

func (d *dlpDetector) close() error {
	return d.api.Close()
}
