// Copyright 2026 Converter Systems LLC. All rights reserved.

package browse

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	_ "modernc.org/sqlite"
)

// Export formats.
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "nodes"

// FormatOf returns the format, or the format implied by the extension of path when format is empty.
func FormatOf(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatCSV, FormatXLSX, FormatSQLite:
		return strings.ToLower(format), nil
	case "":
	default:
		return "", errors.Errorf("unknown format %q", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return FormatCSV, nil
}

// Export writes the records to the file at path, in the given format or the one implied by the path.
func Export(ctx context.Context, path, format string, records []Record) error {
	format, err := FormatOf(path, format)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return WriteXLSX(path, records)
	case FormatSQLite:
		return WriteSQLite(ctx, path, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close csv")
}

// WriteCSV writes the header and one line per record, in order.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return errors.Wrap(err, "write csv record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// WriteXLSX writes the header and one row per record to the sheet 'nodes' of a new workbook.
func WriteXLSX(path string, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "name sheet")
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return errors.Wrap(err, "open sheet")
	}
	if err := sw.SetRow("A1", cells(Header)); err != nil {
		return errors.Wrap(err, "write xlsx header")
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := cells(r.Fields())
		row[0] = r.Depth
		if err := sw.SetRow(cell, row); err != nil {
			return errors.Wrap(err, "write xlsx record")
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flush xlsx")
	}
	return errors.Wrap(f.SaveAs(path), "save xlsx")
}

func cells(fields []string) []interface{} {
	row := make([]interface{}, len(fields))
	for i, v := range fields {
		row[i] = v
	}
	return row
}

var schema = []string{
	`DROP TABLE IF EXISTS nodes`,
	`CREATE TABLE nodes (
	seq        INTEGER PRIMARY KEY,
	depth      INTEGER NOT NULL,
	name       TEXT NOT NULL,
	full_path  TEXT NOT NULL,
	namespace  TEXT NOT NULL,
	identifier TEXT NOT NULL,
	nodeid_str TEXT NOT NULL
)`,
}

// WriteSQLite replaces the table 'nodes' of the database at path with the records. Column seq keeps the walk order.
func WriteSQLite(ctx context.Context, path string, records []Record) error {
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return errors.Wrap(err, "open sqlite")
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (seq, depth, name, full_path, namespace, identifier, nodeid_str) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()
	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i+1, r.Depth, r.Name, r.FullPath, r.Namespace, r.Identifier, r.NodeID); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert record %d", i+1)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// ReadSQLite returns the records stored by WriteSQLite, in walk order.
func ReadSQLite(ctx context.Context, path string) ([]Record, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, `SELECT depth, name, full_path, namespace, identifier, nodeid_str FROM nodes ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query nodes")
	}
	defer rows.Close()
	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Depth, &r.Name, &r.FullPath, &r.Namespace, &r.Identifier, &r.NodeID); err != nil {
			return nil, errors.Wrap(err, "scan node")
		}
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "query nodes")
}
