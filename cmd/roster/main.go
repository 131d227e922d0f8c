// roster exports the student roster of a Canvas course as an xlsx workbook,
// enriched with each student's Ladok program membership.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/monperrus/ladok3/internal/canvas"
	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/ladok"
	"github.com/monperrus/ladok3/internal/logger"
	"github.com/monperrus/ladok3/internal/spreadsheet"
)

var (
	courseID        int64
	outPath         string
	includePersonNr bool
	useTestEnv      bool
	enrollmentType  string
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Export a Canvas course roster with Ladok program data",
	RunE:  run,
}

func init() {
	rootCmd.Flags().Int64VarP(&courseID, "course", "c", 0, "Canvas course id")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "roster.xlsx", "output file")
	rootCmd.Flags().BoolVarP(&includePersonNr, "person-nr", "p", false, "include person numbers in the export")
	rootCmd.Flags().BoolVarP(&useTestEnv, "test-environment", "T", false, "use the Ladok test installation")
	rootCmd.Flags().StringVar(&enrollmentType, "enrollment-type", "StudentEnrollment", "Canvas enrollment type to list")
	rootCmd.MarkFlagRequired("course")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if useTestEnv {
		cfg.Ladok.Environment = "test"
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	ctx := context.Background()

	canvasClient := canvas.NewClient(cfg)
	course, err := canvasClient.CourseInfo(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to look up Canvas course: %w", err)
	}
	enrollments, err := canvasClient.UsersInCourse(ctx, courseID, enrollmentType)
	if err != nil {
		return fmt.Errorf("failed to list Canvas enrollments: %w", err)
	}

	session := ladok.NewFromConfig(cfg)
	if err := session.Login(ctx, cfg.Ladok.Username, cfg.Ladok.Password); err != nil {
		return fmt.Errorf("failed to sign in to Ladok: %w", err)
	}
	defer session.Logout(ctx)

	var rows []spreadsheet.RosterRow
	for _, e := range enrollments {
		row := spreadsheet.RosterRow{
			CanvasUserID: e.User.ID,
			Name:         e.User.Name,
		}

		uid, ok := e.User.LadokUID()
		if !ok {
			log.Warn().Int64("canvas_user_id", e.User.ID).Msg("No Ladok identity for user")
			rows = append(rows, row)
			continue
		}
		row.LadokID = uid

		structure, err := session.StudyStructure(ctx, uid)
		if err != nil {
			log.Warn().Err(err).Str("ladok_id", uid).Msg("Could not fetch study structure")
		} else {
			program := gjson.GetBytes(structure, "Studiestrukturer.0.Utbildningsinformation")
			row.ProgramCode = program.Get("Utbildningskod").String()
			row.ProgramName = program.Get("Benamning.sv").String()
		}

		if includePersonNr {
			student, err := session.StudentByUID(ctx, uid)
			if err != nil {
				log.Warn().Err(err).Str("ladok_id", uid).Msg("Could not fetch student record")
			} else {
				row.PersonNr = student.PersonNr
			}
		}

		rows = append(rows, row)
	}

	if err := spreadsheet.WriteRoster(outPath, rows, includePersonNr); err != nil {
		return err
	}

	log.Info().
		Str("course", course.CourseCode).
		Int("students", len(rows)).
		Str("out", outPath).
		Msg("Roster written")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
