package rpc

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/storage"
)

const errorDomain = "randomfusion"

// toStatus converts a pipeline or storage error into a gRPC status. Structured
// errors carry their Kind and RuleID in an ErrorInfo detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	var fe *fusionerr.Error
	if errors.As(err, &fe) {
		code := codes.InvalidArgument
		if fe.Kind == fusionerr.KindInternal {
			code = codes.Internal
		}
		st := status.New(code, err.Error())
		if detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
			Reason:   fe.RuleID,
			Domain:   errorDomain,
			Metadata: map[string]string{"kind": string(fe.Kind)},
		}); derr == nil {
			st = detailed
		}
		return st.Err()
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrCIDMismatch):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// fromStatus reverses toStatus on the client side.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return fusionerr.Wrap(fusionerr.Kind(info.GetMetadata()["kind"]), info.GetReason(), "remote", errors.New(st.Message()))
		}
	}
	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		if st.Message() == storage.ErrInvalidCID.Error() {
			return storage.ErrInvalidCID
		}
	case codes.DataLoss:
		return storage.ErrCIDMismatch
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return err
}
