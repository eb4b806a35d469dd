package handlers

import (
	"errors"
	"strings"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/snowflakedb/gosnowflake"

	"github.com/nnnkkk7/typebridge/server/apierror"
)

// statementError classifies a driver error into a bridge error code,
// keeping the driver's SQLSTATE when it reports one.
func statementError(err error) *apierror.BridgeError {
	var bErr *apierror.BridgeError
	if errors.As(err, &bErr) {
		return bErr
	}

	var duckErr *duckdb.Error
	if errors.As(err, &duckErr) {
		return apierror.NewStatementError(duckDBCode(duckErr.Type), "", duckErr.Msg)
	}

	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		e := apierror.NewStatementError(sqlStateCode(sfErr.SQLState), sfErr.SQLState, sfErr.Message)
		if sfErr.QueryID != "" {
			e.WithData("queryId", sfErr.QueryID)
		}
		return e.WithData("number", sfErr.Number)
	}

	return apierror.NewStatementError(apierror.CodeStatementFailed, "", err.Error())
}

func duckDBCode(t duckdb.ErrorType) string {
	switch t {
	case duckdb.ErrorTypeParser:
		return apierror.CodeSyntaxError
	case duckdb.ErrorTypeCatalog:
		return apierror.CodeObjectNotFound
	case duckdb.ErrorTypeConstraint:
		return apierror.CodeConstraint
	case duckdb.ErrorTypeConversion, duckdb.ErrorTypeOutOfRange, duckdb.ErrorTypeInvalidInput, duckdb.ErrorTypeMismatchType:
		return apierror.CodeDataException
	}
	return apierror.CodeStatementFailed
}

// sqlStateCode maps a SQLSTATE class to a bridge error code.
func sqlStateCode(state string) string {
	switch {
	case state == "42S02" || state == "42P01":
		return apierror.CodeObjectNotFound
	case strings.HasPrefix(state, "42"):
		return apierror.CodeSyntaxError
	case strings.HasPrefix(state, "23"):
		return apierror.CodeConstraint
	case strings.HasPrefix(state, "22"):
		return apierror.CodeDataException
	}
	return apierror.CodeStatementFailed
}
