package pgremote

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/runoshun/inbox/internal/domain"
)

// mapPgErr converts driver errors into *domain.RemoteError.
func mapPgErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsRemoteError(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		re := domain.NewRemoteError(kindForCode(pgErr.Code), pgErr.Code, err)
		re.Message = pgErr.Message
		return re
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr), errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return domain.NewRemoteError(domain.RemoteNetwork, "", err)
	case pgconn.SafeToRetry(err):
		return domain.NewRemoteError(domain.RemoteNetwork, "", err)
	}
	return domain.NewRemoteError(domain.RemoteUnknown, "", err)
}

// kindForCode maps a SQLSTATE code to an error kind.
func kindForCode(code string) domain.RemoteErrorKind {
	switch code {
	case "23502":
		return domain.RemoteNotNull
	case "23514":
		return domain.RemoteCheckViolation
	case "22001":
		return domain.RemoteTooLong
	}
	switch {
	case strings.HasPrefix(code, "22"):
		// Data exceptions: the value itself is unacceptable, retrying cannot help.
		return domain.RemoteMalformedLiteral
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "57P0"), strings.HasPrefix(code, "53"):
		return domain.RemoteUnavailable
	}
	return domain.RemoteServer
}
