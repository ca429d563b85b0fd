package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// SetMeta writes one index_meta key/value pair inside a transaction.
func SetMeta(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetMeta reads one index_meta value. ok is false when the key is absent.
func (db *DB) GetMeta(key string) (value string, ok bool, err error) {
	err = db.QueryRow("SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// InsertToken inserts one token definition.
func InsertToken(tx *sql.Tx, t TokenDefinition) error {
	_, err := tx.Exec(`
		INSERT INTO tokens (name, value, file, line, layer, computed_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.Name, t.Value, t.File, t.Line, t.Layer, nullable(t.ComputedValue))
	if err != nil {
		return fmt.Errorf("inserting token %s: %w", t.Name, err)
	}
	return nil
}

// InsertThemeVariant inserts one theme variant row.
func InsertThemeVariant(tx *sql.Tx, v ThemeVariant) error {
	_, err := tx.Exec(`
		INSERT INTO token_themes (token_name, theme, value, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token_name, theme) DO UPDATE SET
			value = excluded.value, source = excluded.source
	`, v.TokenName, v.Theme, v.Value, v.Source)
	if err != nil {
		return fmt.Errorf("inserting theme variant %s/%s: %w", v.TokenName, v.Theme, err)
	}
	return nil
}

// InsertUsage inserts one usage record.
func InsertUsage(tx *sql.Tx, u UsageRecord) error {
	_, err := tx.Exec(`
		INSERT INTO usages (file, line, col, class_name, resolved_token, context, component)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.File, u.Line, u.Column, u.ClassName, nullable(u.ResolvedToken), u.Context, nullable(u.Component))
	if err != nil {
		return fmt.Errorf("inserting usage %s at %s:%d: %w", u.ClassName, u.File, u.Line, err)
	}
	return nil
}

// UpsertPattern records one observation of a class pattern. A new hash
// inserts a record with count 1; an existing hash increments count and
// appends the location. Classes keep the first-observed display order.
func UpsertPattern(tx *sql.Tx, hash string, classes []string, loc Location) error {
	var locationsJSON string
	err := tx.QueryRow("SELECT locations_json FROM patterns WHERE hash = ?", hash).Scan(&locationsJSON)
	if err == sql.ErrNoRows {
		classesData, err := json.Marshal(classes)
		if err != nil {
			return err
		}
		locData, err := json.Marshal([]Location{loc})
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO patterns (hash, classes_json, count, locations_json)
			VALUES (?, ?, 1, ?)
		`, hash, string(classesData), string(locData))
		return err
	}
	if err != nil {
		return err
	}

	var locations []Location
	if err := json.Unmarshal([]byte(locationsJSON), &locations); err != nil {
		return fmt.Errorf("decoding pattern locations for %s: %w", hash, err)
	}
	locations = append(locations, loc)
	locData, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		UPDATE patterns SET count = count + 1, locations_json = ? WHERE hash = ?
	`, string(locData), hash)
	return err
}

// InsertTokenEdge inserts one transitive-closure edge.
func InsertTokenEdge(tx *sql.Tx, e TokenGraphEdge) error {
	pathData, err := json.Marshal(e.Path)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO token_graph (ancestor, descendant, depth, path_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ancestor, descendant) DO NOTHING
	`, e.Ancestor, e.Descendant, e.Depth, string(pathData))
	if err != nil {
		return fmt.Errorf("inserting edge %s -> %s: %w", e.Ancestor, e.Descendant, err)
	}
	return nil
}

// InsertComponentEdge inserts one component dependency edge.
func InsertComponentEdge(tx *sql.Tx, e ComponentGraphEdge) error {
	_, err := tx.Exec(`
		INSERT INTO component_graph (component, depends_on, file)
		VALUES (?, ?, ?)
		ON CONFLICT(component, depends_on) DO NOTHING
	`, e.Component, e.DependsOn, e.File)
	return err
}

// Token returns one token definition by name, or nil when absent.
func (db *DB) Token(name string) (*TokenDefinition, error) {
	var t TokenDefinition
	var computed sql.NullString
	err := db.QueryRow(`
		SELECT name, value, file, line, layer, computed_value
		FROM tokens WHERE name = ?
	`, name).Scan(&t.Name, &t.Value, &t.File, &t.Line, &t.Layer, &computed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.ComputedValue = computed.String
	return &t, nil
}

// Tokens returns all token definitions ordered by name.
func (db *DB) Tokens() ([]TokenDefinition, error) {
	rows, err := db.Query(`
		SELECT name, value, file, line, layer, computed_value
		FROM tokens ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []TokenDefinition
	for rows.Next() {
		var t TokenDefinition
		var computed sql.NullString
		if err := rows.Scan(&t.Name, &t.Value, &t.File, &t.Line, &t.Layer, &computed); err != nil {
			return nil, err
		}
		t.ComputedValue = computed.String
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// AncestorsOf returns the ancestor chain of a token, depth ascending: the
// tokens this token's value ultimately depends on.
func (db *DB) AncestorsOf(descendant string) ([]TokenGraphEdge, error) {
	rows, err := db.Query(`
		SELECT ancestor, descendant, depth, path_json
		FROM token_graph WHERE descendant = ?
		ORDER BY depth ASC, ancestor ASC
	`, descendant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEdges(rows)
}

// DependentsOf returns the distinct downstream descendants of a token,
// sorted alphabetically: the tokens whose values would change with it.
func (db *DB) DependentsOf(ancestor string) ([]string, error) {
	rows, err := db.Query(`
		SELECT DISTINCT descendant FROM token_graph
		WHERE ancestor = ? ORDER BY descendant ASC
	`, ancestor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dependents []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dependents = append(dependents, d)
	}
	return dependents, rows.Err()
}

func scanEdges(rows *sql.Rows) ([]TokenGraphEdge, error) {
	var edges []TokenGraphEdge
	for rows.Next() {
		var e TokenGraphEdge
		var pathJSON string
		if err := rows.Scan(&e.Ancestor, &e.Descendant, &e.Depth, &pathJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pathJSON), &e.Path); err != nil {
			return nil, fmt.Errorf("decoding edge path: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// UsagesForClass returns usages of a literal class name, capped at limit
// when limit > 0.
func (db *DB) UsagesForClass(className string, limit int) ([]UsageRecord, error) {
	return db.queryUsages(`
		SELECT file, line, col, class_name, resolved_token, context, component
		FROM usages WHERE class_name = ? ORDER BY file, line, col
	`, className, limit)
}

// UsagesForToken returns usages that resolved to a token, capped at limit
// when limit > 0.
func (db *DB) UsagesForToken(tokenName string, limit int) ([]UsageRecord, error) {
	return db.queryUsages(`
		SELECT file, line, col, class_name, resolved_token, context, component
		FROM usages WHERE resolved_token = ? ORDER BY file, line, col
	`, tokenName, limit)
}

func (db *DB) queryUsages(query, key string, limit int) ([]UsageRecord, error) {
	if limit > 0 {
		query += " LIMIT ?"
	}
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query, key, limit)
	} else {
		rows, err = db.Query(query, key)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []UsageRecord
	for rows.Next() {
		var u UsageRecord
		var token, component sql.NullString
		if err := rows.Scan(&u.File, &u.Line, &u.Column, &u.ClassName, &token, &u.Context, &component); err != nil {
			return nil, err
		}
		u.ResolvedToken = token.String
		u.Component = component.String
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// UsageCountForToken returns how many usages resolved to a token.
func (db *DB) UsageCountForToken(tokenName string) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM usages WHERE resolved_token = ?", tokenName).Scan(&count)
	return count, err
}

// ThemeVariants returns all theme variants of a token. Callers must gate
// on FeatureTokenThemes first.
func (db *DB) ThemeVariants(tokenName string) ([]ThemeVariant, error) {
	rows, err := db.Query(`
		SELECT token_name, theme, value, source
		FROM token_themes WHERE token_name = ? ORDER BY theme
	`, tokenName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []ThemeVariant
	for rows.Next() {
		var v ThemeVariant
		if err := rows.Scan(&v.TokenName, &v.Theme, &v.Value, &v.Source); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// Patterns returns patterns with count >= minCount, most frequent first.
func (db *DB) Patterns(minCount int) ([]PatternRecord, error) {
	if minCount < 1 {
		minCount = 1
	}
	rows, err := db.Query(`
		SELECT hash, classes_json, count, locations_json
		FROM patterns WHERE count >= ? ORDER BY count DESC, hash ASC
	`, minCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []PatternRecord
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, *p)
	}
	return patterns, rows.Err()
}

// PatternByHash returns one pattern by identity hash, or nil when absent.
func (db *DB) PatternByHash(hash string) (*PatternRecord, error) {
	rows, err := db.Query(`
		SELECT hash, classes_json, count, locations_json
		FROM patterns WHERE hash = ?
	`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanPattern(rows)
}

func scanPattern(rows *sql.Rows) (*PatternRecord, error) {
	var p PatternRecord
	var classesJSON, locationsJSON string
	if err := rows.Scan(&p.Hash, &classesJSON, &p.Count, &locationsJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(classesJSON), &p.Classes); err != nil {
		return nil, fmt.Errorf("decoding pattern classes: %w", err)
	}
	if err := json.Unmarshal([]byte(locationsJSON), &p.Locations); err != nil {
		return nil, fmt.Errorf("decoding pattern locations: %w", err)
	}
	return &p, nil
}

// ComponentEdges returns all component dependency edges. Callers must gate
// on FeatureComponentGraph first.
func (db *DB) ComponentEdges() ([]ComponentGraphEdge, error) {
	rows, err := db.Query(`
		SELECT component, depends_on, file FROM component_graph
		ORDER BY component, depends_on
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []ComponentGraphEdge
	for rows.Next() {
		var e ComponentGraphEdge
		if err := rows.Scan(&e.Component, &e.DependsOn, &e.File); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Stats counts rows in each relation. Relations absent from older schemas
// count as zero.
func (db *DB) Stats() (*Stats, error) {
	s := &Stats{}
	counts := []struct {
		table   string
		feature Feature
		dest    *int
	}{
		{"tokens", FeatureTokens, &s.Tokens},
		{"token_themes", FeatureTokenThemes, &s.ThemeVariants},
		{"usages", FeatureUsages, &s.Usages},
		{"patterns", FeaturePatterns, &s.Patterns},
		{"token_graph", FeatureTokenGraph, &s.TokenEdges},
		{"component_graph", FeatureComponentGraph, &s.ComponentEdges},
	}
	for _, c := range counts {
		if !db.Available(c.feature) {
			continue
		}
		if err := db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return s, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
