package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tirasundara/h1b-certified-stats/internal/domain"
	"github.com/tirasundara/h1b-certified-stats/internal/report"
	"github.com/tirasundara/h1b-certified-stats/internal/repository"
	"github.com/tirasundara/h1b-certified-stats/pkg/fileutil"
)

// Report names (without extension) and their first column names
const (
	OccupationsReport = "top_10_occupations"
	StatesReport      = "top_10_states"
	OccupationsLabel  = "TOP_OCCUPATIONS"
	StatesLabel       = "TOP_STATES"
)

var (
	ErrInputDir  = errors.New("input folder does not exist")
	ErrOutputDir = errors.New("output folder does not exist")
)

// RepositoryFactory builds the petition repository for the discovered input file
type RepositoryFactory func(path string, delimiter rune) domain.PetitionRepository

// StatsResult describes a completed run
type StatsResult struct {
	InputFile   string
	Delimiter   rune
	Tally       domain.Tally
	ReportFiles []string
}

// StatsService orchestrates the certified petition statistics
type StatsService struct {
	inputDir   string
	outputDir  string
	concurrent bool
	newRepo    RepositoryFactory
	formatter  report.OutputFormatter
	observer   domain.Observer
}

// NewStatsService creates a new StatsService reading from inputDir and writing into outputDir.
// With more than one worker the input is aggregated concurrently.
func NewStatsService(inputDir, outputDir string, workers int, observer domain.Observer) *StatsService {
	if observer == nil {
		observer = domain.NopObserver{}
	}

	newRepo := func(path string, delimiter rune) domain.PetitionRepository {
		repo := repository.NewCSVPetitionRepository(path, delimiter, observer)
		if workers > 0 {
			repo.NumWorkers = workers
		}
		return repo
	}

	return &StatsService{
		inputDir:   inputDir,
		outputDir:  outputDir,
		concurrent: workers > 1,
		newRepo:    newRepo,
		formatter:  report.NewSemicolonFormatter(),
		observer:   observer,
	}
}

// WithRepositoryFactory replaces the repository used to aggregate the input file
func (s *StatsService) WithRepositoryFactory(factory RepositoryFactory) *StatsService {
	s.newRepo = factory
	return s
}

// WithFormatter replaces the report formatter, its FileExtension names the report files
func (s *StatsService) WithFormatter(formatter report.OutputFormatter) *StatsService {
	s.formatter = formatter
	return s
}

// reportPath returns the destination of a report in the output directory
func (s *StatsService) reportPath(name string) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("%s.%s", name, s.formatter.FileExtension()))
}

// Run locates the input file, aggregates it and writes both ranked reports.
// Either both reports are written or none is.
func (s *StatsService) Run() (StatsResult, error) {
	// Check input/output dirs exist before processing data
	if err := fileutil.EnsureDir(s.inputDir); err != nil {
		return StatsResult{}, fmt.Errorf("%w: %v", ErrInputDir, err)
	}
	if err := fileutil.EnsureDir(s.outputDir); err != nil {
		return StatsResult{}, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	inputFile, err := fileutil.FindInputFile(s.inputDir)
	if err != nil {
		return StatsResult{}, fmt.Errorf("locating input file: %w", err)
	}

	delimiter, err := fileutil.DetectDelimiter(inputFile)
	if err != nil {
		return StatsResult{}, fmt.Errorf("detecting delimiter of %s: %w", inputFile, err)
	}

	repo := s.newRepo(inputFile, delimiter)

	var tally domain.Tally
	if s.concurrent {
		tally, err = repo.AggregateConcurrently()
	} else {
		tally, err = repo.Aggregate()
	}
	if err != nil {
		return StatsResult{}, fmt.Errorf("aggregating petitions: %w", err)
	}

	reports := []struct {
		name  string
		label string
		table domain.FrequencyTable
	}{
		{OccupationsReport, OccupationsLabel, tally.Occupations},
		{StatesReport, StatesLabel, tally.States},
	}

	// Render everything first so a formatting failure leaves no partial output
	rendered := make([]report.Rendered, 0, len(reports))
	for _, r := range reports {
		out, err := report.Render(s.reportPath(r.name), report.NewReport(r.label, r.table, tally.Certified), s.formatter)
		if err != nil {
			return StatsResult{}, err
		}
		rendered = append(rendered, out)
	}

	if err := report.WriteAll(s.observer, rendered...); err != nil {
		return StatsResult{}, err
	}

	result := StatsResult{
		InputFile: inputFile,
		Delimiter: delimiter,
		Tally:     tally,
	}
	for _, out := range rendered {
		result.ReportFiles = append(result.ReportFiles, out.Path)
	}

	return result, nil
}
