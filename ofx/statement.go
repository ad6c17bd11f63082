package ofx

import (
	"context"
	"fmt"
	"io"

	"github.com/etnz/ofxledger/logger"
)

// StatusError reports a request that the institution did not process.
type StatusError struct {
	Request string
	Status  Status
}

func (e *StatusError) Error() string {
	msg := e.Status.Message
	if msg == "" {
		msg = "no message"
	}
	return fmt.Sprintf("%s failed with status %d (%s): %s", e.Request, e.Status.Code, e.Status.Severity, msg)
}

// Decode reads an investment statement document.
//
// Unknown transaction, security or position kinds are logged with the logger
// from ctx and dropped. A document that does not follow the schemas returns a
// *DecodeError, a signon or statement with a non zero status code returns a
// *StatusError.
func Decode(ctx context.Context, r io.Reader) (*Statement, error) {
	root, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return DecodeTree(ctx, root)
}

// DecodeTree decodes an already parsed document.
func DecodeTree(ctx context.Context, root *Node) (*Statement, error) {
	d := NewDecoder(logger.FromContext(ctx))
	v, err := d.Build(statementSchema, root)
	if err != nil {
		return nil, err
	}
	st := v.(*Statement)
	st.Dropped = d.Dropped()
	if st.SignOn.Status.Code != 0 {
		return nil, &StatusError{Request: "signon", Status: st.SignOn.Status}
	}
	if st.Response.Status.Code != 0 {
		return nil, &StatusError{Request: "investment statement", Status: st.Response.Status}
	}
	return st, nil
}
