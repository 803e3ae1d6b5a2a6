package cli

import (
	"encoding/json"
	"errors"
	"io"

	perrors "github.com/p-blackswan/zanatactl/internal/errors"
	"github.com/p-blackswan/zanatactl/internal/operation"
)

// failure is the JSON written when an invocation fails.
type failure struct {
	Failed  bool     `json:"failed"`
	Msg     string   `json:"msg"`
	Kind    string   `json:"kind"`
	Status  int      `json:"status,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func writeResult(w io.Writer, res *operation.Result) error {
	return json.NewEncoder(w).Encode(res)
}

func writeFailure(w io.Writer, err error) error {
	f := failure{
		Failed: true,
		Msg:    err.Error(),
		Kind:   perrors.Kind(err),
		Status: perrors.StatusCode(err),
	}
	var ve *perrors.ValidationError
	if errors.As(err, &ve) {
		f.Missing = ve.Missing
	}
	return json.NewEncoder(w).Encode(f)
}
