package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"student-records/models"
	"student-records/report"
	"student-records/repository"
	"student-records/spreadsheet"
)

func newInitDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database file and its tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database ready")
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import students from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.importFile(cmd, args[0], (*spreadsheet.Importer).ImportStudents)
		},
	}
}

func newImportPeriodsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-periods <file.xlsx|file.csv>",
		Short: "Import education periods keyed by student email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.importFile(cmd, args[0], (*spreadsheet.Importer).ImportPeriods)
		},
	}
}

type importFunc func(*spreadsheet.Importer, context.Context, io.Reader, spreadsheet.Format) (*spreadsheet.ImportResult, error)

func (a *app) importFile(cmd *cobra.Command, path string, fn importFunc) error {
	format, err := spreadsheet.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := fn(spreadsheet.NewImporter(repository.New(db)), cmd.Context(), f, format)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d rows failed", len(res.Failed), res.Total)
	}
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx|file.csv>",
		Short: "Export every student to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := spreadsheet.FormatFromPath(args[0])
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			students, err := repository.New(db).Students.List(cmd.Context(), repository.Filter{})
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := spreadsheet.ExportStudents(f, format, students); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d students to %s\n", len(students), args[0])
			return nil
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	var (
		q   report.Query
		out string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "List a group's events inside a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := report.New(db).Run(cmd.Context(), q)
			if err != nil {
				if ve, ok := models.AsValidation(err); ok {
					return errors.New(ve.Message())
				}
				return err
			}
			if res.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), report.ErrNoData)
				return nil
			}

			if out != "" {
				if err := spreadsheet.WriteFile(out, "Report", report.Columns, res.Table()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(res.Rows), out)
				return nil
			}
			return spreadsheet.WriteTable(cmd.OutOrStdout(), spreadsheet.CSV, "", report.Columns, res.Table())
		},
	}

	cmd.Flags().StringVar(&q.GroupName, "group", "", "group name")
	cmd.Flags().StringVar(&q.Start, "start", "", "first day, dd.MM.yyyy")
	cmd.Flags().StringVar(&q.End, "end", "", "last day, dd.MM.yyyy")
	cmd.Flags().StringVar(&out, "out", "", "write the report to this .xlsx or .csv file")
	cmd.MarkFlagRequired("group")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}
