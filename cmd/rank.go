package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/screening"
	"github.com/spigell/resume-ranker/internal/skills"
)

const (
	PromptShowTable           = "Show ranked table"
	PromptWriteCSV            = "Write CSV"
	PromptReportBySkill       = "Report by skills"
	PromptAppendToExcludeFile = "Append all resumes to exclude file"
	PromptDumpToFile          = "Dump results to temp file"
	PromptExit                = "Exit"
	defaultOutput             = "ranked_resumes.csv"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank [flags] RESUME...",
	Short: "Rank resume files (pdf, docx, doc, txt) against a job description",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job", "", "job description text")
	rankCmd.Flags().String("job-file", "", "file with the job description, takes precedence over --job")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt, write the CSV right away")
	rankCmd.Flags().StringP("output", "o", "", "CSV output path, '-' for stdout (default is "+defaultOutput+")")
	rankCmd.Flags().StringP("exclude-file", "e", "", "file with already screened resumes to exclude. Default is unset.")

	viper.BindPFlag("output", rankCmd.Flags().Lookup("output"))
	viper.BindPFlag("exclude-file", rankCmd.Flags().Lookup("exclude-file"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	skillList, err := skills.Load(config.SkillsFile)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}
	logger.Info("loaded skills", zap.Int("count", len(skillList)), zap.String("path", config.SkillsFile))

	job, err := readJobDescription(cmd)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	resumes, err := readResumes(args)
	if err != nil {
		logger.Fatal("reading resumes", zap.Error(err))
	}

	screener := screening.New(document.New(logger), skillList, config.Filters, logger)
	screener.NewFilters = func() []filtering.Filter {
		steps := filtering.Default()
		if config.ExcludeFile == "" {
			filtering.DisableByName(steps, "exclude_file", "no exclude file configured")
		}
		for _, st := range filtering.Describe(steps) {
			logger.Debug("filter status", zap.String("name", st.Name), zap.Bool("enabled", st.Enabled), zap.String("reason", st.Reason))
		}
		return steps
	}

	result, err := screener.Run(ctx, &screening.Request{JobDescription: job, Resumes: resumes})
	if err != nil {
		var vErr *screening.ValidationError
		if errors.As(err, &vErr) {
			logger.Fatal("invalid input", zap.String("reason", vErr.Error()))
		}
		logger.Fatal("screening failed", zap.Error(err))
	}

	reportWarnings(logger, result.Warnings)

	table := result.Table
	if table.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := writeCSV(logger, table, config.Output); err != nil {
			logger.Fatal("writing csv", zap.Error(err))
		}
		return
	}

	items := []string{PromptShowTable, PromptWriteCSV, PromptReportBySkill, PromptDumpToFile}
	if config.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	prompt := promptui.Select{
		Label: "Done. What next?",
		Items: append(items, PromptExit),
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, table); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, table *ranking.Table) error {
	switch action {
	case PromptShowTable:
		table.Render(os.Stdout)
		return nil
	case PromptWriteCSV:
		return writeCSV(logger, table, config.Output)
	case PromptReportBySkill:
		report := table.ReportBySkill()
		for _, skill := range ranking.SkillsByCoverage(report) {
			fmt.Printf("%s (%d): %s\n", skill, len(report[skill]), strings.Join(report[skill], ", "))
		}
		return nil
	case PromptAppendToExcludeFile:
		excluded, err := ranking.GetExcludedResumesFromFile(config.ExcludeFile)
		if err != nil {
			return err
		}
		excluded.Append(table.ToExcluded())
		if err := excluded.ToFile(config.ExcludeFile); err != nil {
			return err
		}
		logger.Info("appended to exclude file", zap.String("filename", config.ExcludeFile))
		return nil
	case PromptDumpToFile:
		filename, err := table.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// reportWarnings sums up parse failures; the extractor already logged each one.
func reportWarnings(logger *zap.Logger, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	logger.Info("some resumes were ranked with empty text", zap.Int("count", len(warnings)))
}

func writeCSV(logger *zap.Logger, table *ranking.Table, output string) error {
	output = strings.TrimSpace(output)
	if output == "" {
		output = defaultOutput
	}

	if output == "-" {
		return table.WriteCSV(os.Stdout)
	}

	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := table.WriteCSV(file); err != nil {
		return err
	}

	logger.Info("ranked csv written", zap.String("filename", output), zap.Int("rows", table.Len()))
	return nil
}

// readJobDescription prefers --job-file over --job, like an uploaded file
// wins over pasted text.
func readJobDescription(cmd *cobra.Command) (string, error) {
	job := cmd.Flag("job").Value.String()

	path := strings.TrimSpace(cmd.Flag("job-file").Value.String())
	if path == "" {
		return job, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job file %q: %w", path, err)
	}
	return document.DecodeText(data), nil
}

func readResumes(paths []string) ([]screening.Document, error) {
	docs := make([]screening.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading resume %q: %w", path, err)
		}
		docs = append(docs, screening.Document{Filename: filepath.Base(path), Data: data})
	}
	return docs, nil
}
