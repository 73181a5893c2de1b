package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"reviewapi/internal/model"
	"reviewapi/internal/storage"
)

var errEmptyRef = errors.New("media store returned an empty reference")

// MediaOutcome is the result of one item of a best-effort media batch.
type MediaOutcome struct {
	Index    int
	Filename string
	Ref      string
	Err      error
}

// OK reports whether the item succeeded.
func (o MediaOutcome) OK() bool { return o.Err == nil }

// uploadAll uploads files in order. A failed item never aborts the batch.
func uploadAll(ctx context.Context, gw storage.Gateway, files []model.Upload) []MediaOutcome {
	out := make([]MediaOutcome, 0, len(files))
	for i, f := range files {
		o := MediaOutcome{Index: i, Filename: f.Filename}
		ref, err := gw.Upload(ctx, f)
		switch {
		case err != nil:
			o.Err = err
		case ref == "":
			o.Err = errEmptyRef
		default:
			o.Ref = ref
		}
		out = append(out, o)
	}
	return out
}

// releaseAll releases every ref. A failed item never aborts the batch.
func releaseAll(ctx context.Context, gw storage.Gateway, refs []string) []MediaOutcome {
	out := make([]MediaOutcome, 0, len(refs))
	for i, ref := range refs {
		out = append(out, MediaOutcome{Index: i, Ref: ref, Err: gw.Release(ctx, ref)})
	}
	return out
}

// uploadedRefs returns the references of the successful uploads, in order.
// The result is never nil.
func uploadedRefs(outcomes []MediaOutcome) []string {
	refs := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			refs = append(refs, o.Ref)
		}
	}
	return refs
}

// logFailures writes one warn line per failed item and returns how many failed.
func logFailures(log zerolog.Logger, op string, outcomes []MediaOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.OK() {
			continue
		}
		n++
		log.Warn().Err(o.Err).
			Str("event", op+"_failed").
			Int("index", o.Index).
			Str("filename", o.Filename).
			Str("media_ref", o.Ref).
			Msg("media operation failed, continuing")
	}
	return n
}
