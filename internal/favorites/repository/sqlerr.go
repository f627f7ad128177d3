package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/tair/acme-store/internal/favorites/domain"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
	codeInvalidText         = "22P02"
	classConnection         = "08"
)

var conflictMessages = map[string]string{
	constraintUsername:     "username already exists",
	constraintProductName:  "product name already exists",
	constraintFavoritePair: "product is already a favorite of this user",
}

var referenceMessages = map[string]string{
	constraintFavoriteUser:    "user does not exist",
	constraintFavoriteProduct: "product does not exist",
}

// classify converts a native driver error into a *domain.Error. Errors that
// are already classified pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return err
	}

	if code, constraint, ok := sqlState(err); ok {
		switch {
		case code == codeUniqueViolation:
			msg, found := conflictMessages[constraint]
			if !found {
				msg = "record already exists"
			}
			return domain.Conflict(op, msg, err)
		case code == codeForeignKeyViolation:
			msg, found := referenceMessages[constraint]
			if !found {
				msg = "referenced record does not exist"
			}
			return domain.Reference(op, msg, err)
		case code == codeNotNullViolation, code == codeCheckViolation,
			code == codeStringTooLong, code == codeInvalidText:
			return &domain.Error{Kind: domain.KindValidation, Op: op, Message: "invalid input", Err: err}
		case strings.HasPrefix(code, classConnection),
			code == "57P01", code == "57P02", code == "57P03":
			return domain.Unavailable(op, err)
		}
		return &domain.Error{Kind: domain.KindUnknown, Op: op, Err: err}
	}

	if isUnavailable(err) {
		return domain.Unavailable(op, err)
	}

	return &domain.Error{Kind: domain.KindUnknown, Op: op, Err: err}
}

// sqlState extracts the SQLSTATE and constraint name from pgx or lib/pq errors.
func sqlState(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}

	return "", "", false
}

func isUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}
