package meta

import (
	"github.com/metatk/retrieval-core/config"
	"github.com/metatk/retrieval-core/errs"
)

type errUnknownMethod struct {
	kind  string
	value string
}

func (e errUnknownMethod) Error() string { return "unknown " + e.kind + ": " + e.value }

func badRankerMethod(m config.RankerMethod) error {
	return errs.New(errs.KindBadArgument, "meta.NewRanker", errUnknownMethod{"ranker.method", string(m)})
}

func badFeedbackMethod(m config.FeedbackMethod) error {
	return errs.New(errs.KindBadArgument, "meta.NewFeedbackMethod", errUnknownMethod{"feedback.method", string(m)})
}
