package redaction

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.EXTRACTIMAGES
	return conf
}

// redactDocument masks text in every page and form content stream and
// replaces every page image with its redacted rendition. Unused objects
// are dropped by the optimizer before the document is written.
func redactDocument(ctx context.Context, pdf []byte, det detector) (*Result, error) {
	pc, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnredactable, err)
	}

	res := &Result{Pages: pc.PageCount}
	seen := make(map[int]bool)

	for page := 1; page <= pc.PageCount; page++ {
		n, err := redactPageText(ctx, pc, page, det)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		res.TextFindings += n

		n, err = redactPageImages(ctx, pc, page, det, seen)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		res.ImageFindings += n
	}

	n, err := redactForms(ctx, pc, det)
	if err != nil {
		return nil, err
	}
	res.TextFindings += n

	var out bytes.Buffer
	if err := api.WriteContext(pc, &out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	res.PDF = out.Bytes()
	return res, nil
}

func redactPageText(ctx context.Context, pc *model.Context, page int, det detector) (int, error) {
	d, _, _, err := pc.PageDict(page, false)
	if err != nil {
		return 0, err
	}

	content, err := pc.PageContent(d, page)
	if errors.Is(err, model.ErrNoContent) || (err == nil && content == nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnredactable, err)
	}

	masked, n, err := maskContent(ctx, content, det)
	if err != nil || n == 0 {
		return 0, err
	}

	if err := replacePageContent(pc, d, masked); err != nil {
		return 0, err
	}
	return n, nil
}

// replacePageContent writes masked into the streams behind the page's
// Contents entry. Arrays collapse into their first stream and the rest are
// emptied, so no stream keeps unmasked text.
func replacePageContent(pc *model.Context, d types.Dict, masked []byte) error {
	o, _ := d.Find("Contents")

	var refs []types.IndirectRef
	switch o := o.(type) {
	case types.IndirectRef:
		obj, err := pc.Dereference(o)
		if err != nil {
			return err
		}
		if arr, ok := obj.(types.Array); ok {
			refs, err = streamRefs(arr)
			if err != nil {
				return err
			}
		} else {
			refs = []types.IndirectRef{o}
		}
	case types.Array:
		var err error
		if refs, err = streamRefs(o); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: direct page content", ErrUnredactable)
	}

	for i, ref := range refs {
		content := masked
		if i > 0 {
			content = []byte{}
		}
		if err := replaceStream(pc, ref, content); err != nil {
			return err
		}
	}
	return nil
}

func streamRefs(arr types.Array) ([]types.IndirectRef, error) {
	refs := make([]types.IndirectRef, 0, len(arr))
	for _, o := range arr {
		ref, ok := o.(types.IndirectRef)
		if !ok {
			return nil, fmt.Errorf("%w: direct content stream", ErrUnredactable)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func replaceStream(pc *model.Context, ref types.IndirectRef, content []byte) error {
	entry, ok := pc.FindTableEntryForIndRef(&ref)
	if !ok || entry.Object == nil {
		return fmt.Errorf("%w: missing stream %s", ErrUnredactable, ref)
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return fmt.Errorf("%w: object %s is not a stream", ErrUnredactable, ref)
	}

	if err := restream(&sd, content); err != nil {
		return err
	}
	entry.Object = sd
	return nil
}

// restream swaps the stream's content for content, flate encoded.
func restream(sd *types.StreamDict, content []byte) error {
	sd.Content = content
	sd.FilterPipeline = []types.PDFFilter{{Name: filter.Flate}}
	sd.Update("Filter", types.Name(filter.Flate))
	sd.Delete("DecodeParms")
	sd.Delete("DL")
	return sd.Encode()
}

// redactForms masks text drawn by form XObjects, which page content
// streams reference but do not contain.
func redactForms(ctx context.Context, pc *model.Context, det detector) (int, error) {
	total := 0
	for objNr, entry := range pc.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if st := sd.Subtype(); st == nil || *st != "Form" {
			continue
		}

		if err := sd.Decode(); err != nil {
			return 0, fmt.Errorf("%w: form %d: %v", ErrUnredactable, objNr, err)
		}

		masked, n, err := maskContent(ctx, sd.Content, det)
		if err != nil {
			return 0, fmt.Errorf("form %d: %w", objNr, err)
		}
		if n == 0 {
			continue
		}

		if err := restream(&sd, masked); err != nil {
			return 0, err
		}
		entry.Object = sd
		total += n
	}
	return total, nil
}

// redactPageImages replaces each image on the page with the detector's
// redacted copy. Images pdfcpu cannot extract fail the document.
func redactPageImages(ctx context.Context, pc *model.Context, page int, det detector, seen map[int]bool) (int, error) {
	images, err := pdfcpu.ExtractPageImages(pc, page, false)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnredactable, err)
	}

	for _, objNr := range pdfcpu.ImageObjNrs(pc, page) {
		if _, ok := images[objNr]; !ok && !seen[objNr] {
			return 0, fmt.Errorf("%w: image %d has an unsupported encoding", ErrUnredactable, objNr)
		}
	}

	total := 0
	for objNr, img := range images {
		if seen[objNr] {
			continue
		}
		seen[objNr] = true

		decoded, err := decodeImage(img, img.FileType)
		if err != nil {
			return 0, fmt.Errorf("image %d: %w", objNr, err)
		}

		redacted, n, err := det.redactImage(ctx, decoded)
		if err != nil {
			return 0, fmt.Errorf("image %d: %w", objNr, err)
		}
		if n == 0 {
			continue
		}

		data, err := encodePNG(redacted)
		if err != nil {
			return 0, fmt.Errorf("image %d: %w", objNr, err)
		}
		if err := pdfcpu.UpdateImagesByObjNr(pc, bytes.NewReader(data), objNr); err != nil {
			return 0, fmt.Errorf("replace image %d: %w", objNr, err)
		}
		total += n
	}
	return total, nil
}
