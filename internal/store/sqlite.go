package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	upsertToolStmt     *sql.Stmt
	getToolStmt        *sql.Stmt
	listToolsStmt      *sql.Stmt
	deleteToolStmt     *sql.Stmt
	upsertTestCaseStmt *sql.Stmt
	getTestCaseStmt    *sql.Stmt
	listTestCasesStmt  *sql.Stmt
	deleteTestCaseStmt *sql.Stmt
	upsertModelStmt    *sql.Stmt
	getModelStmt       *sql.Stmt
	listModelsStmt     *sql.Stmt
	deleteModelStmt    *sql.Stmt
}

var (
	sqliteOpen              = sql.Open
	sqlitePrepareStatements = (*SQLiteStore).prepareStatements
)

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sqliteOpen("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := sqlitePrepareStatements(st); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS tools (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			parameters_json TEXT,
			mock_config_json TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS test_cases (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			prompt TEXT NOT NULL,
			system_prompt TEXT NOT NULL DEFAULT '',
			tool_ids_json TEXT,
			expected_output TEXT NOT NULL DEFAULT '',
			expected_tool_calls_json TEXT,
			criteria_json TEXT,
			weights_json TEXT,
			max_iterations INTEGER NOT NULL DEFAULT 0,
			use_mock INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS models (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			temperature REAL NOT NULL DEFAULT 0,
			max_tokens INTEGER NOT NULL DEFAULT 0,
			base_url TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tools_name ON tools(name)`,
		`CREATE INDEX IF NOT EXISTS idx_test_cases_name ON test_cases(name)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.upsertToolStmt,
			query: `
				INSERT INTO tools (id, name, description, parameters_json, mock_config_json, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					parameters_json = excluded.parameters_json,
					mock_config_json = excluded.mock_config_json,
					updated_at = excluded.updated_at
			`,
			errFmt: "store: prepare upsert tool: %w",
		},
		{
			dst: &s.getToolStmt,
			query: `
				SELECT id, name, description, parameters_json, mock_config_json, created_at, updated_at
				FROM tools WHERE id = ?
			`,
			errFmt: "store: prepare get tool: %w",
		},
		{
			dst: &s.listToolsStmt,
			query: `
				SELECT id, name, description, parameters_json, mock_config_json, created_at, updated_at
				FROM tools ORDER BY name ASC
			`,
			errFmt: "store: prepare list tools: %w",
		},
		{
			dst:    &s.deleteToolStmt,
			query:  `DELETE FROM tools WHERE id = ?`,
			errFmt: "store: prepare delete tool: %w",
		},
		{
			dst: &s.upsertTestCaseStmt,
			query: `
				INSERT INTO test_cases (
					id, name, description, prompt, system_prompt, tool_ids_json, expected_output,
					expected_tool_calls_json, criteria_json, weights_json, max_iterations, use_mock,
					created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					prompt = excluded.prompt,
					system_prompt = excluded.system_prompt,
					tool_ids_json = excluded.tool_ids_json,
					expected_output = excluded.expected_output,
					expected_tool_calls_json = excluded.expected_tool_calls_json,
					criteria_json = excluded.criteria_json,
					weights_json = excluded.weights_json,
					max_iterations = excluded.max_iterations,
					use_mock = excluded.use_mock,
					updated_at = excluded.updated_at
			`,
			errFmt: "store: prepare upsert test case: %w",
		},
		{
			dst: &s.getTestCaseStmt,
			query: `
				SELECT id, name, description, prompt, system_prompt, tool_ids_json, expected_output,
					expected_tool_calls_json, criteria_json, weights_json, max_iterations, use_mock,
					created_at, updated_at
				FROM test_cases WHERE id = ?
			`,
			errFmt: "store: prepare get test case: %w",
		},
		{
			dst: &s.listTestCasesStmt,
			query: `
				SELECT id, name, description, prompt, system_prompt, tool_ids_json, expected_output,
					expected_tool_calls_json, criteria_json, weights_json, max_iterations, use_mock,
					created_at, updated_at
				FROM test_cases ORDER BY name ASC
			`,
			errFmt: "store: prepare list test cases: %w",
		},
		{
			dst:    &s.deleteTestCaseStmt,
			query:  `DELETE FROM test_cases WHERE id = ?`,
			errFmt: "store: prepare delete test case: %w",
		},
		{
			dst: &s.upsertModelStmt,
			query: `
				INSERT INTO models (id, name, provider, model, temperature, max_tokens, base_url, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					provider = excluded.provider,
					model = excluded.model,
					temperature = excluded.temperature,
					max_tokens = excluded.max_tokens,
					base_url = excluded.base_url,
					updated_at = excluded.updated_at
			`,
			errFmt: "store: prepare upsert model: %w",
		},
		{
			dst: &s.getModelStmt,
			query: `
				SELECT id, name, provider, model, temperature, max_tokens, base_url, created_at, updated_at
				FROM models WHERE id = ?
			`,
			errFmt: "store: prepare get model: %w",
		},
		{
			dst: &s.listModelsStmt,
			query: `
				SELECT id, name, provider, model, temperature, max_tokens, base_url, created_at, updated_at
				FROM models ORDER BY name ASC
			`,
			errFmt: "store: prepare list models: %w",
		},
		{
			dst:    &s.deleteModelStmt,
			query:  `DELETE FROM models WHERE id = ?`,
			errFmt: "store: prepare delete model: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.upsertToolStmt,
		s.getToolStmt,
		s.listToolsStmt,
		s.deleteToolStmt,
		s.upsertTestCaseStmt,
		s.getTestCaseStmt,
		s.listTestCasesStmt,
		s.deleteTestCaseStmt,
		s.upsertModelStmt,
		s.getModelStmt,
		s.listModelsStmt,
		s.deleteModelStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveTool inserts or updates a tool definition. A missing ID is assigned.
func (s *SQLiteStore) SaveTool(ctx context.Context, tool *ToolRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if tool == nil {
		return errors.New("store: nil tool")
	}
	if strings.TrimSpace(tool.Name) == "" {
		return errors.New("store: empty tool name")
	}

	now := time.Now().UTC()
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = now
	}
	tool.UpdatedAt = now

	paramsJSON, err := encodeJSON(tool.Parameters)
	if err != nil {
		return fmt.Errorf("store: marshal tool parameters: %w", err)
	}
	mockJSON, err := encodeJSON(tool.MockConfig)
	if err != nil {
		return fmt.Errorf("store: marshal mock config: %w", err)
	}

	_, err = s.upsertToolStmt.ExecContext(
		ctx,
		tool.ID,
		tool.Name,
		tool.Description,
		paramsJSON,
		mockJSON,
		tool.CreatedAt.UnixMilli(),
		tool.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save tool: %w", err)
	}
	return nil
}

// GetTool loads a tool by id.
func (s *SQLiteStore) GetTool(ctx context.Context, id string) (*ToolRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty tool id")
	}

	tool, err := scanTool(s.getToolStmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: tool %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get tool: %w", err)
	}
	return tool, nil
}

// ListTools returns all tool definitions ordered by name.
func (s *SQLiteStore) ListTools(ctx context.Context) ([]*ToolRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.listToolsStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list tools: %w", err)
	}
	defer rows.Close()

	var out []*ToolRecord
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan tool: %w", err)
		}
		out = append(out, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list tools: %w", err)
	}
	return out, nil
}

// DeleteTool removes a tool definition.
func (s *SQLiteStore) DeleteTool(ctx context.Context, id string) error {
	return s.deleteByID(ctx, s.deleteToolStmt, "tool", id)
}

// SaveTestCase inserts or updates a test case. A missing ID is assigned.
func (s *SQLiteStore) SaveTestCase(ctx context.Context, tc *TestCaseRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if tc == nil {
		return errors.New("store: nil test case")
	}
	if strings.TrimSpace(tc.Name) == "" {
		return errors.New("store: empty test case name")
	}
	if strings.TrimSpace(tc.Prompt) == "" {
		return errors.New("store: empty test case prompt")
	}

	now := time.Now().UTC()
	if tc.ID == "" {
		tc.ID = uuid.NewString()
	}
	if tc.CreatedAt.IsZero() {
		tc.CreatedAt = now
	}
	tc.UpdatedAt = now

	toolIDsJSON, err := encodeJSON(tc.ToolIDs)
	if err != nil {
		return fmt.Errorf("store: marshal tool ids: %w", err)
	}
	expectedJSON, err := encodeJSON(tc.ExpectedToolCalls)
	if err != nil {
		return fmt.Errorf("store: marshal expected tool calls: %w", err)
	}
	criteriaJSON, err := encodeJSON(tc.Criteria)
	if err != nil {
		return fmt.Errorf("store: marshal criteria: %w", err)
	}
	weightsJSON, err := encodeJSON(tc.Weights)
	if err != nil {
		return fmt.Errorf("store: marshal weights: %w", err)
	}

	_, err = s.upsertTestCaseStmt.ExecContext(
		ctx,
		tc.ID,
		tc.Name,
		tc.Description,
		tc.Prompt,
		tc.SystemPrompt,
		toolIDsJSON,
		tc.ExpectedOutput,
		expectedJSON,
		criteriaJSON,
		weightsJSON,
		tc.MaxIterations,
		boolToInt(tc.UseMock),
		tc.CreatedAt.UnixMilli(),
		tc.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save test case: %w", err)
	}
	return nil
}

// GetTestCase loads a test case by id.
func (s *SQLiteStore) GetTestCase(ctx context.Context, id string) (*TestCaseRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty test case id")
	}

	tc, err := scanTestCase(s.getTestCaseStmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: test case %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get test case: %w", err)
	}
	return tc, nil
}

// ListTestCases returns all test cases ordered by name.
func (s *SQLiteStore) ListTestCases(ctx context.Context) ([]*TestCaseRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.listTestCasesStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list test cases: %w", err)
	}
	defer rows.Close()

	var out []*TestCaseRecord
	for rows.Next() {
		tc, err := scanTestCase(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan test case: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list test cases: %w", err)
	}
	return out, nil
}

// DeleteTestCase removes a test case.
func (s *SQLiteStore) DeleteTestCase(ctx context.Context, id string) error {
	return s.deleteByID(ctx, s.deleteTestCaseStmt, "test case", id)
}

// SaveModel inserts or updates a model configuration. A missing ID is
// assigned.
func (s *SQLiteStore) SaveModel(ctx context.Context, mc *ModelRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if mc == nil {
		return errors.New("store: nil model")
	}
	if strings.TrimSpace(mc.Name) == "" {
		return errors.New("store: empty model name")
	}
	if strings.TrimSpace(mc.Provider) == "" {
		return errors.New("store: empty model provider")
	}

	now := time.Now().UTC()
	if mc.ID == "" {
		mc.ID = uuid.NewString()
	}
	if mc.CreatedAt.IsZero() {
		mc.CreatedAt = now
	}
	mc.UpdatedAt = now

	_, err := s.upsertModelStmt.ExecContext(
		ctx,
		mc.ID,
		mc.Name,
		mc.Provider,
		mc.Model,
		mc.Temperature,
		mc.MaxTokens,
		mc.BaseURL,
		mc.CreatedAt.UnixMilli(),
		mc.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save model: %w", err)
	}
	return nil
}

// GetModel loads a model configuration by id.
func (s *SQLiteStore) GetModel(ctx context.Context, id string) (*ModelRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty model id")
	}

	mc, err := scanModel(s.getModelStmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: model %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get model: %w", err)
	}
	return mc, nil
}

// ListModels returns all model configurations ordered by name.
func (s *SQLiteStore) ListModels(ctx context.Context) ([]*ModelRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	rows, err := s.listModelsStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list models: %w", err)
	}
	defer rows.Close()

	var out []*ModelRecord
	for rows.Next() {
		mc, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan model: %w", err)
		}
		out = append(out, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list models: %w", err)
	}
	return out, nil
}

// DeleteModel removes a model configuration.
func (s *SQLiteStore) DeleteModel(ctx context.Context, id string) error {
	return s.deleteByID(ctx, s.deleteModelStmt, "model", id)
}

func (s *SQLiteStore) deleteByID(ctx context.Context, stmt *sql.Stmt, kind, id string) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("store: empty %s id", kind)
	}

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (*ToolRecord, error) {
	var (
		rec         ToolRecord
		paramsJSON  sql.NullString
		mockJSON    sql.NullString
		createdAtMS int64
		updatedAtMS int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &paramsJSON, &mockJSON, &createdAtMS, &updatedAtMS); err != nil {
		return nil, err
	}
	if err := decodeJSON(paramsJSON, &rec.Parameters); err != nil {
		return nil, fmt.Errorf("decode tool parameters: %w", err)
	}
	if err := decodeJSON(mockJSON, &rec.MockConfig); err != nil {
		return nil, fmt.Errorf("decode mock config: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAtMS).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAtMS).UTC()
	return &rec, nil
}

func scanTestCase(row rowScanner) (*TestCaseRecord, error) {
	var (
		rec          TestCaseRecord
		toolIDsJSON  sql.NullString
		expectedJSON sql.NullString
		criteriaJSON sql.NullString
		weightsJSON  sql.NullString
		useMock      int
		createdAtMS  int64
		updatedAtMS  int64
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Description,
		&rec.Prompt,
		&rec.SystemPrompt,
		&toolIDsJSON,
		&rec.ExpectedOutput,
		&expectedJSON,
		&criteriaJSON,
		&weightsJSON,
		&rec.MaxIterations,
		&useMock,
		&createdAtMS,
		&updatedAtMS,
	); err != nil {
		return nil, err
	}
	if err := decodeJSON(toolIDsJSON, &rec.ToolIDs); err != nil {
		return nil, fmt.Errorf("decode tool ids: %w", err)
	}
	if err := decodeJSON(expectedJSON, &rec.ExpectedToolCalls); err != nil {
		return nil, fmt.Errorf("decode expected tool calls: %w", err)
	}
	if err := decodeJSON(criteriaJSON, &rec.Criteria); err != nil {
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	if err := decodeJSON(weightsJSON, &rec.Weights); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	rec.UseMock = useMock != 0
	rec.CreatedAt = time.UnixMilli(createdAtMS).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAtMS).UTC()
	return &rec, nil
}

func scanModel(row rowScanner) (*ModelRecord, error) {
	var (
		rec         ModelRecord
		createdAtMS int64
		updatedAtMS int64
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Provider,
		&rec.Model,
		&rec.Temperature,
		&rec.MaxTokens,
		&rec.BaseURL,
		&createdAtMS,
		&updatedAtMS,
	); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(createdAtMS).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAtMS).UTC()
	return &rec, nil
}

func encodeJSON(v any) (sql.NullString, error) {
	switch t := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case map[string]any:
		if t == nil {
			return sql.NullString{}, nil
		}
	case map[string]int:
		if t == nil {
			return sql.NullString{}, nil
		}
	case []string:
		if t == nil {
			return sql.NullString{}, nil
		}
	case []map[string]any:
		if t == nil {
			return sql.NullString{}, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeJSON(src sql.NullString, dst any) error {
	if !src.Valid {
		return nil
	}
	raw := strings.TrimSpace(src.String)
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
