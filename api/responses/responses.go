package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	logDumped(ctx, logg, err, typed)
	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteCheckoutError renders failures in the storefront checkout contract:
// {success:false, message} with the code's HTTP status.
func WriteCheckoutError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := typed.Message()
	if msg == "" || typed.Code() == pkgerrors.CodeInternal || typed.Code() == pkgerrors.CodeDependency {
		// Raw internal errors never cross the boundary verbatim.
		msg = meta.PublicMessage
	}

	logDumped(ctx, logg, err, typed)
	writeJSON(w, meta.HTTPStatus, types.CheckoutResult{Success: false, Message: msg})
}

// WriteCheckoutSuccess renders a completed placement in the storefront
// checkout contract: {success:true, orderId}.
func WriteCheckoutSuccess(w http.ResponseWriter, orderID string) {
	writeJSON(w, http.StatusOK, types.CheckoutResult{Success: true, OrderID: orderID})
}

func logDumped(ctx context.Context, logg *logger.Logger, err error, typed *pkgerrors.Error) {
	if logg == nil {
		return
	}
	dump := pkgerrors.Dump(err)

	fields := map[string]any{
		"error":         dump.TopMessage,
		"error_code":    dump.Code,
		"error_chain":   dump.Chain,
		"pg_code":       dump.PGCode,
		"pg_detail":     dump.PGDetail,
		"pg_message":    dump.PGMessage,
		"pg_table":      dump.PGTable,
		"pg_column":     dump.PGColumn,
		"pg_constraint": dump.PGConstraint,
	}

	if d := typed.Details(); d != nil {
		if dm, ok := d.(map[string]any); ok {
			if step, ok := dm["step"]; ok {
				fields["step"] = step
			}
		}
	}

	ctx = logg.WithFields(ctx, fields)
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
