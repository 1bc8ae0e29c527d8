package bridge

import (
	"github.com/tiger/build-progress-bridge/api/progress"
	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

// toResult maps a wire result payload to the stable result variant. A tag
// outside the known set yields nil: the finish event is still emitted, just
// without a result. Treating that as a protocol violation instead is an open
// question; the current behavior mirrors what producers rely on today.
func toResult(r wire.Result) progress.Result {
	switch r.Type {
	case wire.ResultSuccessful:
		return progress.Success{StartTimeMS: r.StartTimeMS, EndTimeMS: r.EndTimeMS}
	case wire.ResultSkipped:
		return progress.Skipped{StartTimeMS: r.StartTimeMS, EndTimeMS: r.EndTimeMS}
	case wire.ResultFailed:
		return progress.Failed{
			StartTimeMS: r.StartTimeMS,
			EndTimeMS:   r.EndTimeMS,
			Failures:    toFailures(r.Failures),
		}
	default:
		return nil
	}
}

// toFailures maps a wire failure list in order. Nil entries represent causes
// the runtime reported as absent and are passed through unchanged.
func toFailures(in []*wire.Failure) []*progress.Failure {
	if in == nil {
		return nil
	}
	out := make([]*progress.Failure, len(in))
	for i, f := range in {
		out[i] = toFailure(f)
	}
	return out
}

func toFailure(f *wire.Failure) *progress.Failure {
	if f == nil {
		return nil
	}
	return &progress.Failure{
		Message:     f.Message,
		Description: f.Description,
		Causes:      toFailures(f.Causes),
	}
}
