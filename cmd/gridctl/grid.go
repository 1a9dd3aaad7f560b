package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	fs "github.com/ungerik/go-fs"
	"go.uber.org/multierr"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/csvtable"
	"github.com/domonda/go-datagrid/gridconfig"
	"github.com/domonda/go-datagrid/sqltable"
)

// Record is a JSON object of a data file.
type Record = gridconfig.Record

// readRecords reads a data file containing a JSON array of objects.
func readRecords(file fs.File) ([]Record, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read data file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("data file %s is not a JSON array of objects: %w", string(file), err)
	}
	return records, nil
}

// sqlitePrefix marks data paths of SQLite databases
// that are read with the --query flag.
const sqlitePrefix = "sqlite://"

// queryRecords reads the result rows of the --query flag
// from the SQLite database at path.
func (a *app) queryRecords(ctx context.Context, path string) (records []Record, err error) {
	if a.query == "" {
		return nil, fmt.Errorf("data source %s%s needs a --query", sqlitePrefix, path)
	}
	db, err := sqltable.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	return sqltable.QueryRecords(ctx, db, a.query)
}

// readCSV reads a CSV file with a header row
// and returns its records and header keys.
func readCSV(file fs.File) ([]Record, []string, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("can't read data file: %w", err)
	}
	table, err := csvtable.ReadDetectFormat(data, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("can't read CSV file %s: %w", string(file), err)
	}
	return table.Records, table.Header, nil
}

// readData reads the records of a JSON or CSV data file or SQLite database.
// The returned keys are the column order of the data source if it has one.
func (a *app) readData(ctx context.Context, dataPath string) (records []Record, keys []string, err error) {
	if path, ok := strings.CutPrefix(dataPath, sqlitePrefix); ok {
		records, err = a.queryRecords(ctx, path)
		return records, nil, err
	}
	if strings.EqualFold(filepath.Ext(dataPath), ".csv") {
		return readCSV(fs.File(dataPath))
	}
	records, err = readRecords(fs.File(dataPath))
	return records, nil, err
}

// definition returns the grid definition from the --grid file
// or inferred from records with columns ordered by keys.
// Definitions without key use the name of the data file
// as key for their modes.
func (a *app) definition(dataPath string, records []Record, keys []string) (*gridconfig.Definition, error) {
	var def *gridconfig.Definition
	if a.gridFile != "" {
		var err error
		if def, err = gridconfig.Load(a.gridFile); err != nil {
			return nil, err
		}
	} else {
		if dataPath == "" {
			return nil, errors.New("a data file or a grid definition (--grid) is needed")
		}
		def = gridconfig.Infer("", records)
		def.OrderColumns(keys)
	}
	if def.Key == "" {
		def.Key = strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
	}
	if def.Key == "" || def.Key == "." {
		return nil, errors.New("grid definition has no key")
	}
	return def, nil
}

// loadGrid returns a grid of the records of the data source at dataPath.
// An empty dataPath returns an empty grid of the --grid definition.
func (a *app) loadGrid(ctx context.Context, dataPath string, options ...datagrid.Option[Record]) (*datagrid.Grid[Record], *gridconfig.Definition, error) {
	var (
		records []Record
		keys    []string
	)
	if dataPath != "" {
		var err error
		if records, keys, err = a.readData(ctx, dataPath); err != nil {
			return nil, nil, err
		}
	}
	def, err := a.definition(dataPath, records, keys)
	if err != nil {
		return nil, nil, err
	}
	options = append(options, datagrid.WithLogger[Record](a.logger))
	grid, err := def.NewGrid(options...)
	if err != nil {
		return nil, nil, err
	}
	grid.SetData(records)
	a.logger.Debug("loaded grid", "grid", def.Key, "records", len(records))
	return grid, def, nil
}

// viewFlags change the configuration of a grid.
type viewFlags struct {
	sort   string
	params map[string]string
	hide   []string
	show   []string
	widths map[string]string
}

func (v *viewFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&v.sort, "sort", "s", "", `sort by column "key", "key:desc" or "none"`)
	flags.StringToStringVarP(&v.params, "param", "p", nil, "filter parameter key=pattern, an empty pattern removes the parameter")
	flags.StringSliceVar(&v.hide, "hide", nil, "hide columns")
	flags.StringSliceVar(&v.show, "show", nil, "show hidden columns")
	flags.StringToStringVar(&v.widths, "width", nil, "column width key=width")
}

func (v *viewFlags) apply(grid *datagrid.Grid[Record]) error {
	for _, key := range v.hide {
		if err := grid.SetColumnHidden(key, true); err != nil {
			return err
		}
	}
	for _, key := range v.show {
		if err := grid.SetColumnHidden(key, false); err != nil {
			return err
		}
	}
	for key, width := range v.widths {
		if err := grid.SetColumnWidth(key, width); err != nil {
			return err
		}
	}
	if len(v.params) > 0 {
		params := grid.Parameters()
		if params == nil {
			params = make(datagrid.Parameters, len(v.params))
		}
		for key, value := range v.params {
			if value == "" {
				delete(params, key)
			} else {
				params[key] = value
			}
		}
		grid.SetParameters(params)
	}
	if v.sort != "" {
		state, err := parseSort(v.sort)
		if err != nil {
			return err
		}
		if err := grid.SetSort(state); err != nil {
			return err
		}
	}
	return nil
}

// parseSort parses "key", "key:asc", "key:desc" or "none".
func parseSort(str string) (datagrid.SortState, error) {
	if str == "none" {
		return datagrid.SortState{}, nil
	}
	column, direction, _ := strings.Cut(str, ":")
	state := datagrid.SortState{Column: column}
	if err := state.Direction.UnmarshalText([]byte(direction)); err != nil {
		return datagrid.SortState{}, err
	}
	return state, nil
}

// pageFlags select the page of a grid.
type pageFlags struct {
	page     int
	pageSize string
}

func (p *pageFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&p.page, "page", 1, "page number starting at 1")
	flags.StringVar(&p.pageSize, "page-size", "", `rows per page, one of 10, 25, 50, 100, 250, 500 or "auto"`)
}

func (p *pageFlags) apply(grid *datagrid.Grid[Record]) error {
	if p.pageSize != "" {
		size, err := datagrid.ParsePageSize(p.pageSize)
		if err != nil {
			return err
		}
		if err := grid.SetPageSize(size); err != nil {
			return err
		}
	}
	grid.SetPage(p.page - 1)
	return nil
}
