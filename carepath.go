package carepath

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/carepath/core/answer"
	"github.com/siherrmann/carepath/core/graph"
	"github.com/siherrmann/carepath/core/pipeline"
	"github.com/siherrmann/carepath/database"
	"github.com/siherrmann/carepath/helper"
	"github.com/siherrmann/carepath/model"
	"github.com/siherrmann/carepath/resources"
	loadSql "github.com/siherrmann/carepath/sql"
)

// Options configures a Carepath instance
type Options struct {
	Logger         *slog.Logger // Defaults to a pretty handler on stdout
	Tables         map[model.Domain]*model.JourneyTable
	Ontology       *model.Ontology
	CoverageConfig *model.CoverageConfig // Defaults to DefaultCoverageConfig
}

// Carepath classifies situations onto care journeys and evaluates ontology coverage
type Carepath struct {
	// Optional catalog storage
	DB         *helper.Database
	Journeys   *database.JourneysDBHandler
	Ontologies *database.OntologiesDBHandler
	// Pipelines
	JourneyPipeline  *pipeline.JourneyPipeline
	CoveragePipeline *pipeline.CoveragePipeline
	// Static data, read-only after construction
	tables   map[model.Domain]*model.JourneyTable
	ontology *model.Ontology
	config   model.CoverageConfig
	// Logging
	log *slog.Logger
}

func defaultLogger() *slog.Logger {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	return slog.New(helper.NewPrettyHandler(os.Stdout, opts))
}

// New creates a Carepath instance from the given journey tables and ontology.
// Every table is validated and must belong to a known domain.
func New(opts Options) (*Carepath, error) {
	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger()
	}

	if len(opts.Tables) == 0 {
		return nil, helper.NewError("validate options", fmt.Errorf("no journey tables given"))
	}
	for domain, table := range opts.Tables {
		if table == nil {
			return nil, helper.NewError("validate options", fmt.Errorf("journey table for domain %s is nil", domain))
		}
		if err := table.Validate(); err != nil {
			return nil, helper.NewError(fmt.Sprintf("validate journey table %s", domain), err)
		}
	}

	config := model.DefaultCoverageConfig()
	if opts.CoverageConfig != nil {
		config = *opts.CoverageConfig
	}

	return &Carepath{
		JourneyPipeline:  pipeline.DefaultJourneyPipeline(),
		CoveragePipeline: pipeline.DefaultCoveragePipeline(),
		tables:           opts.Tables,
		ontology:         opts.Ontology,
		config:           config,
		log:              logger,
	}, nil
}

// NewDefault creates a Carepath instance from the embedded journeys and orthopedic ontology
func NewDefault() (*Carepath, error) {
	tables, err := resources.JourneyTables()
	if err != nil {
		return nil, helper.NewError("load journey tables", err)
	}

	ontology, err := resources.OrthopedicOntology()
	if err != nil {
		return nil, helper.NewError("load ontology", err)
	}

	return New(Options{
		Tables:   tables,
		Ontology: ontology,
	})
}

// NewFromDatabase creates a Carepath instance from a catalog stored in postgres.
// All known domains and the named ontology must have been seeded before.
func NewFromDatabase(config *helper.DatabaseConfiguration, ontologyName string) (*Carepath, error) {
	logger := defaultLogger()

	journeys, ontologies, db, err := connect(config, logger)
	if err != nil {
		return nil, err
	}

	tables := map[model.Domain]*model.JourneyTable{}
	for _, domain := range model.Domains {
		table, err := journeys.SelectTable(domain)
		if err != nil {
			db.Close()
			return nil, helper.NewError(fmt.Sprintf("select journey table %s", domain), err)
		}
		if len(table.Steps) == 0 {
			db.Close()
			return nil, helper.NewError("select journey table", fmt.Errorf("no steps stored for domain %s", domain))
		}
		tables[domain] = table
	}

	ontology, err := ontologies.SelectOntology(ontologyName)
	if err != nil {
		db.Close()
		return nil, helper.NewError(fmt.Sprintf("select ontology %s", ontologyName), err)
	}

	c, err := New(Options{
		Logger:   logger,
		Tables:   tables,
		Ontology: ontology,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	c.DB = db
	c.Journeys = journeys
	c.Ontologies = ontologies

	return c, nil
}

func connect(config *helper.DatabaseConfiguration, logger *slog.Logger) (*database.JourneysDBHandler, *database.OntologiesDBHandler, *helper.Database, error) {
	if config == nil {
		return nil, nil, nil, helper.NewError("connect", fmt.Errorf("database configuration is nil"))
	}

	db := &helper.Database{Name: "carepath", Logger: logger}
	err := db.ConnectToDatabase(config)
	if err != nil {
		return nil, nil, nil, helper.NewError("connect to database", err)
	}

	err = loadSql.Init(db.Instance)
	if err != nil {
		db.Close()
		return nil, nil, nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	journeys, err := database.NewJourneysDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, nil, nil, helper.NewError("create journeys handler", err)
	}

	ontologies, err := database.NewOntologiesDBHandler(db, false)
	if err != nil {
		db.Close()
		return nil, nil, nil, helper.NewError("create ontologies handler", err)
	}

	return journeys, ontologies, db, nil
}

// Connect attaches a postgres catalog to an instance created without one
func (c *Carepath) Connect(config *helper.DatabaseConfiguration) error {
	if c.DB != nil {
		return helper.NewError("connect", fmt.Errorf("database already connected"))
	}

	journeys, ontologies, db, err := connect(config, c.log)
	if err != nil {
		return err
	}

	c.DB = db
	c.Journeys = journeys
	c.Ontologies = ontologies

	return nil
}

// SeedDatabase stores copies of the in-memory journey tables and ontology in the
// connected catalog. The in-memory data keeps its ids.
func (c *Carepath) SeedDatabase() error {
	if c.DB == nil {
		return helper.NewError("seed database", fmt.Errorf("database not connected, use Connect() first"))
	}

	for _, domain := range model.Domains {
		table, ok := c.tables[domain]
		if !ok {
			continue
		}
		if err := c.Journeys.InsertTable(table.Clone()); err != nil {
			return helper.NewError(fmt.Sprintf("insert journey table %s", domain), err)
		}
	}

	if c.ontology != nil {
		if err := c.Ontologies.InsertOntology(c.ontology.Clone()); err != nil {
			return helper.NewError("insert ontology", err)
		}
	}

	c.log.Info("Seeded catalog", slog.Int("tables", len(c.tables)), slog.Bool("ontology", c.ontology != nil))

	return nil
}

// Close closes the database connection
func (c *Carepath) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// Table returns the journey table of a domain or nil
func (c *Carepath) Table(domain model.Domain) *model.JourneyTable {
	return c.tables[domain]
}

// Ontology returns the loaded ontology
func (c *Carepath) Ontology() *model.Ontology {
	return c.ontology
}

// Classify detects the domain of the text and places it on that domain's journey
func (c *Carepath) Classify(text string) (*model.ClassificationResult, error) {
	result, err := c.JourneyPipeline.Process(text, c.tables)
	if err != nil {
		return nil, helper.NewError("classify", err)
	}

	c.log.Debug("Classified text",
		slog.String("domain", string(result.Domain)),
		slog.Int("step_id", result.StepID),
		slog.Int("clarifications", len(result.Clarifications)),
	)

	return result, nil
}

// Coverage evaluates which entities and relationships a dataset header evidences
func (c *Carepath) Coverage(header []string) (*model.CoverageResult, error) {
	output, err := c.CoveragePipeline.Process(c.ontology, header, c.config)
	if err != nil {
		return nil, helper.NewError("coverage", err)
	}

	c.log.Debug("Evaluated coverage",
		slog.Int("columns", len(output.Columns)),
		slog.Int("covered_entities", len(output.Coverage.CoveredEntities)),
		slog.Int("covered_relationships", len(output.Coverage.CoveredRelationships)),
		slog.Int("missing_columns", len(output.Coverage.MissingColumns)),
	)

	return output.Coverage, nil
}

// CoverageGraph evaluates a header and projects the ontology with its coverage styling
func (c *Carepath) CoverageGraph(header []string) (*model.Graph, error) {
	output, err := c.CoveragePipeline.Process(c.ontology, header, c.config)
	if err != nil {
		return nil, helper.NewError("coverage graph", err)
	}
	if output.Graph == nil {
		return nil, helper.NewError("coverage graph", fmt.Errorf("coverage pipeline has no projector"))
	}

	return output.Graph, nil
}

// Reachable returns the entities reachable from an entity over relationships
// the header evidences, in either direction, within maxHops.
func (c *Carepath) Reachable(header []string, from string, maxHops int) ([]*graph.TraversalResult, error) {
	g, err := c.CoverageGraph(header)
	if err != nil {
		return nil, err
	}

	results, err := graph.BFS(g, from, maxHops, true, true)
	if err != nil {
		return nil, helper.NewError("reachable", err)
	}

	return results, nil
}

// Answer answers a simple aggregate question about the dataset
func (c *Carepath) Answer(question string, dataset *model.Dataset) string {
	return answer.Answer(question, dataset)
}
