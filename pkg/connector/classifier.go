package connector

import (
	"regexp"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

// StatementType represents the category of a SQL statement.
type StatementType int

// Statement types.
const (
	StatementTypeQuery       StatementType = iota // SELECT, SHOW, DESCRIBE, WITH
	StatementTypeDML                              // INSERT, UPDATE, DELETE, MERGE
	StatementTypeDDL                              // CREATE, DROP, ALTER
	StatementTypeTransaction                      // BEGIN, COMMIT, ROLLBACK
	StatementTypeOther                            // SET, PRAGMA, anything else
)

func (t StatementType) String() string {
	switch t {
	case StatementTypeQuery:
		return "query"
	case StatementTypeDML:
		return "dml"
	case StatementTypeDDL:
		return "ddl"
	case StatementTypeTransaction:
		return "transaction"
	default:
		return "other"
	}
}

// ClassifyResult contains the classification result of a SQL statement.
type ClassifyResult struct {
	Type StatementType
	// ReturnsRows is true for statements that must run through QueryRaw.
	ReturnsRows bool
}

// Classifier decides whether a statement returns rows. It parses with
// vitess-sqlparser and falls back to keyword prefixes for dialects the
// parser does not know.
type Classifier struct{}

// NewClassifier creates a new SQL classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

// Classify analyzes a SQL statement and returns its classification.
func (c *Classifier) Classify(sql string) ClassifyResult {
	if t, ok := c.parse(sql); ok {
		return c.result(t, sql)
	}
	return c.result(c.prefix(strings.ToUpper(strings.TrimSpace(sql))), sql)
}

func (c *Classifier) result(t StatementType, sql string) ClassifyResult {
	rows := t == StatementTypeQuery
	if t == StatementTypeDML && returningClause.MatchString(sql) {
		rows = true
	}
	return ClassifyResult{Type: t, ReturnsRows: rows}
}

func (c *Classifier) parse(sql string) (StatementType, bool) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return 0, false
	}
	switch stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union, *sqlparser.ParenSelect,
		*sqlparser.Show, *sqlparser.OtherRead:
		return StatementTypeQuery, true
	case *sqlparser.Insert, *sqlparser.Update, *sqlparser.Delete:
		return StatementTypeDML, true
	case *sqlparser.DDL, *sqlparser.DBDDL:
		return StatementTypeDDL, true
	}
	return 0, false
}

func (c *Classifier) prefix(upperSQL string) StatementType {
	switch {
	case c.isQueryStatement(upperSQL):
		return StatementTypeQuery
	case hasAnyPrefix(upperSQL, "INSERT", "UPDATE", "DELETE", "MERGE", "UPSERT", "REPLACE", "COPY"):
		return StatementTypeDML
	case hasAnyPrefix(upperSQL, "CREATE", "DROP", "ALTER", "TRUNCATE"):
		return StatementTypeDDL
	case c.isTransactionStatement(upperSQL):
		return StatementTypeTransaction
	}
	return StatementTypeOther
}

// isQueryStatement checks if the SQL is a query (read-only) statement.
func (c *Classifier) isQueryStatement(upperSQL string) bool {
	return hasAnyPrefix(upperSQL,
		"SELECT", "WITH", "VALUES", "FROM", "TABLE ", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "SUMMARIZE", "PRAGMA", "(")
}

// isTransactionStatement checks if the SQL is a transaction control statement.
func (c *Classifier) isTransactionStatement(upperSQL string) bool {
	return hasAnyPrefix(upperSQL, "BEGIN", "START TRANSACTION", "COMMIT", "END", "ROLLBACK")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// DefaultClassifier is the default SQL classifier instance.
var DefaultClassifier = NewClassifier()

// ReturnsRows reports whether sql must run through QueryRaw.
func ReturnsRows(sql string) bool {
	return DefaultClassifier.Classify(sql).ReturnsRows
}
