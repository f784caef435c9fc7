// Command evalfixtures exports companies from the job board database as a
// YAML fixture file for the company industry classifier's evaluation run.
//
//	evalfixtures -out fixtures.yaml -limit 200 -only-labeled
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/config"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/sysutil"
)

// Case is one evaluation input with its expected label.
type Case struct {
	Name             string `yaml:"name"`
	Website          string `yaml:"website,omitempty"`
	ExpectedIndustry string `yaml:"expected_industry"`
}

// File is the top-level document written to -out.
type File struct {
	Cases []Case `yaml:"cases"`
}

// createFile is swapped in tests.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

type options struct {
	out         string
	limit       int
	onlyLabeled bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("evalfixtures", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVar(&o.out, "out", "-", `output path, "-" for stdout`)
	fs.IntVar(&o.limit, "limit", 0, "max companies to export (0 = all)")
	fs.BoolVar(&o.onlyLabeled, "only-labeled", false, "export only companies with a known industry")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.limit < 0 {
		return options{}, fmt.Errorf("-limit must be >= 0, got %d", o.limit)
	}
	return o, nil
}

func main() {
	cfg := config.MustLoad()
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, "evalfixtures")

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}

	n, err := run(context.Background(), db, opts, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("export fixtures")
	}
	log.Info().Int("cases", n).Str("out", opts.out).Msg("fixtures written")
}

// run writes the fixture document to opts.out, or to stdout when out is "-".
func run(ctx context.Context, db *gorm.DB, opts options, stdout io.Writer) (int, error) {
	companies, err := repo.ListCompanies(ctx, db, opts.onlyLabeled, opts.limit)
	if err != nil {
		return 0, err
	}
	doc := buildFixtures(companies)

	if opts.out == "" || opts.out == "-" {
		if err := writeFixtures(stdout, doc); err != nil {
			return 0, err
		}
		return len(doc.Cases), nil
	}
	if err := writeFixtureFile(opts.out, doc); err != nil {
		return 0, err
	}
	return len(doc.Cases), nil
}

// writeFixtureFile creates path and writes doc to it. A failed Close is
// reported, since buffered data may not have reached the disk.
func writeFixtureFile(path string, doc File) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return writeFixtures(f, doc)
}

func buildFixtures(companies []domain.Company) File {
	doc := File{Cases: make([]Case, 0, len(companies))}
	for _, c := range companies {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		doc.Cases = append(doc.Cases, Case{
			Name:             name,
			Website:          strings.TrimSpace(c.Website),
			ExpectedIndustry: strings.TrimSpace(c.Industry),
		})
	}
	return doc
}

func writeFixtures(w io.Writer, doc File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
