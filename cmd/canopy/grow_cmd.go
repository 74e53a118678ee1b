package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	// Import of the sql drivers for sqlite3 files and postgresql URLs
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/evaluation"
	"github.com/pbanos/canopy/pkg/bio"
	"github.com/pbanos/canopy/tree"
)

var graphFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
}

type growCmdConfig struct {
	*rootCmdConfig
	dataInput          string
	metadataInput      string
	label              string
	table              string
	collection         string
	columns            []string
	testSize           float64
	randomState        int64
	numSplits          int
	maxDepth           int
	splitMethod        string
	impurity           string
	graphOutput        string
	graphFormat        string
	cpuIntensiveSet    bool
	memoryIntensiveSet bool
	maxDBConns         int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long: `Grow a tree from a set of data to predict its label, print it and print
its confusion matrix and accuracy on the training and testing samples.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.fromViper()
			return config.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&(config.dataInput), "input", "i", "", "path to a KEEL (.dat), CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the data to grow the tree from (required)")
	flags.StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file describing the features of the data (required for all but KEEL and NumPy inputs)")
	flags.StringVarP(&(config.label), "label", "l", "", "name of the feature the tree should predict (defaults to the last feature in the metadata, KEEL and NumPy inputs declare their own)")
	flags.StringVar(&(config.table), "table", "samples", "name of the table holding the samples on SQL databases")
	flags.StringVar(&(config.collection), "collection", "", "name of the collection holding the samples on MongoDB databases (defaults to samples)")
	flags.StringSliceVar(&(config.columns), "columns", nil, "names of the columns of a NumPy input, the last one being the label")
	flags.Float64Var(&(config.testSize), "test-size", 0.3, "fraction of the samples held out to test the tree")
	flags.Int64Var(&(config.randomState), "random-state", 42, "seed of the shuffle that splits training and testing samples")
	flags.IntVar(&(config.numSplits), "num-splits", canopy.DefaultNumSplits, "number of bands the samples of a node are split into")
	flags.IntVar(&(config.maxDepth), "max-depth", 1000, "maximum number of nodes on a path from the root to a leaf (0 for unbounded)")
	flags.StringVar(&(config.splitMethod), "split-method", "equal", "method to split samples: equal, entropy or gini")
	flags.StringVar(&(config.impurity), "impurity", "entropy", "impurity measure to select features with: entropy or gini")
	flags.StringVarP(&(config.graphOutput), "graph", "g", "", "path to a file to which a graphviz rendering of the tree will be written")
	flags.StringVar(&(config.graphFormat), "graph-format", "", "format of the graphviz rendering: dot, svg, png or jpg (defaults to the graph file extension)")
	flags.BoolVar(&(config.memoryIntensiveSet), "memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	flags.BoolVar(&(config.cpuIntensiveSet), "cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
	flags.IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (gcc *growCmdConfig) fromViper() {
	v := gcc.v
	gcc.dataInput = v.GetString("input")
	gcc.metadataInput = v.GetString("metadata")
	gcc.label = v.GetString("label")
	gcc.table = v.GetString("table")
	gcc.collection = v.GetString("collection")
	gcc.columns = v.GetStringSlice("columns")
	gcc.testSize = v.GetFloat64("test-size")
	gcc.randomState = v.GetInt64("random-state")
	gcc.numSplits = v.GetInt("num-splits")
	gcc.maxDepth = v.GetInt("max-depth")
	gcc.splitMethod = v.GetString("split-method")
	gcc.impurity = v.GetString("impurity")
	gcc.graphOutput = v.GetString("graph")
	gcc.graphFormat = v.GetString("graph-format")
	gcc.memoryIntensiveSet = v.GetBool("memory-intensive")
	gcc.cpuIntensiveSet = v.GetBool("cpu-intensive")
	gcc.maxDBConns = v.GetInt("max-db-conns")
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.dataInput == "" {
		return fmt.Errorf("required input flag was not set")
	}
	if gcc.cpuIntensiveSet && gcc.memoryIntensiveSet {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	if gcc.testSize < 0 || gcc.testSize >= 1 {
		return fmt.Errorf("test-size must be in [0, 1), got %v", gcc.testSize)
	}
	if gcc.graphOutput != "" {
		if _, err := gcc.format(); err != nil {
			return err
		}
	}
	return nil
}

func (gcc *growCmdConfig) format() (graphviz.Format, error) {
	name := gcc.graphFormat
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(gcc.graphOutput), ".")
	}
	format, ok := graphFormats[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown graph format %q", name)
	}
	return format, nil
}

func (gcc *growCmdConfig) options(logger logrus.FieldLogger) (canopy.Options, error) {
	strategy, err := canopy.ParseSplitStrategy(gcc.splitMethod)
	if err != nil {
		return canopy.Options{}, err
	}
	fn, err := canopy.ParseImpurity(gcc.impurity)
	if err != nil {
		return canopy.Options{}, err
	}
	return canopy.Options{
		Strategy:  strategy,
		NumSplits: gcc.numSplits,
		MaxDepth:  gcc.maxDepth,
		Impurity:  fn,
		Logger:    logger,
	}, nil
}

func (gcc *growCmdConfig) run(ctx context.Context, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := gcc.Validate(); err != nil {
		return exitWith(1, err)
	}
	logger := newLogger(errOut, gcc.verbose)
	o, err := gcc.options(logger)
	if err != nil {
		return exitWith(1, err)
	}
	set, err := gcc.readSet(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := set.Close(); err != nil {
			logger.WithError(err).Warn("closing the input dataset")
		}
	}()
	logger.WithField("input", gcc.dataInput).Debug("splitting samples into training and testing sets")
	train, test, err := dataset.TrainTestSplit(ctx, set.Dataset, gcc.testSize, gcc.randomState)
	if err != nil {
		return exitWith(4, fmt.Errorf("splitting samples: %v", err))
	}
	p, err := canopy.New(set.Inputs, set.Label, o)
	if err != nil {
		return exitWith(5, err)
	}
	t, err := p.Grow(ctx, train)
	if err != nil {
		return exitWith(6, fmt.Errorf("growing the tree: %v", err))
	}
	logger.WithFields(logrus.Fields{"depth": t.Depth(), "leaves": t.LeafCount()}).Debug("tree grown")
	fmt.Fprintln(out, t)
	labels, err := evaluation.Labels(ctx, set.Dataset, t)
	if err != nil {
		return exitWith(7, fmt.Errorf("listing labels: %v", err))
	}
	for _, evaluated := range []struct {
		name string
		s    dataset.Dataset
	}{{"Train Set", train}, {"Test Set", test}} {
		if evaluated.s == test && gcc.testSize == 0 {
			continue
		}
		cm, err := evaluation.Evaluate(ctx, t, evaluated.s, labels)
		if err != nil {
			return exitWith(7, fmt.Errorf("evaluating the tree on the %s: %v", strings.ToLower(evaluated.name), err))
		}
		fmt.Fprint(out, cm)
		fmt.Fprintf(out, "Accuracy: %g%% (%s)\n", 100*cm.Accuracy(), evaluated.name)
		if cm.Misses() > 0 {
			fmt.Fprintf(out, "No prediction: %d\n", cm.Misses())
		}
		fmt.Fprintln(out)
	}
	if gcc.graphOutput != "" {
		if err = gcc.writeGraph(t); err != nil {
			return exitWith(8, err)
		}
	}
	return nil
}

func (gcc *growCmdConfig) writeGraph(t *tree.Tree) error {
	format, err := gcc.format()
	if err != nil {
		return err
	}
	f, err := os.Create(gcc.graphOutput)
	if err != nil {
		return fmt.Errorf("creating graph file: %v", err)
	}
	defer f.Close()
	return t.WriteGraph(f, format)
}

func (gcc *growCmdConfig) setGenerator() bio.SetGenerator {
	if gcc.memoryIntensiveSet {
		return bio.SetGenerator(dataset.NewMemoryIntensive)
	}
	if gcc.cpuIntensiveSet {
		return bio.SetGenerator(dataset.NewCPUIntensive)
	}
	return bio.SetGenerator(dataset.New)
}

func (gcc *growCmdConfig) readSet(ctx context.Context, logger logrus.FieldLogger) (*bio.Set, error) {
	input := gcc.dataInput
	logger = logger.WithField("input", input)
	switch {
	case strings.HasSuffix(input, ".dat"):
		logger.Debug("reading KEEL dataset")
		set, err := bio.ReadKEELSetFromFilePath(input, gcc.setGenerator())
		if err != nil {
			return nil, exitWith(3, err)
		}
		return set, nil
	case strings.HasSuffix(input, ".npy"):
		logger.Debug("reading NumPy dataset")
		set, err := bio.ReadNpySetFromFilePath(input, gcc.columns, gcc.setGenerator())
		if err != nil {
			return nil, exitWith(3, err)
		}
		return set, nil
	}
	if gcc.metadataInput == "" {
		return nil, exitWith(1, fmt.Errorf("required metadata flag was not set"))
	}
	features, err := bio.ReadYMLFeaturesFromFile(gcc.metadataInput)
	if err != nil {
		return nil, exitWith(2, err)
	}
	label := gcc.label
	if label == "" && len(features) > 0 {
		label = features[len(features)-1].Name()
	}
	var set *bio.Set
	switch {
	case strings.HasPrefix(input, "postgresql://"), strings.HasPrefix(input, "postgres://"):
		logger.Debug("opening PostgreSQL dataset")
		set, err = bio.OpenSQLSet(ctx, "postgres", input, gcc.table, features, label, gcc.maxDBConns)
	case strings.HasSuffix(input, ".db"):
		logger.Debug("opening SQLite3 dataset")
		set, err = bio.OpenSQLSet(ctx, "sqlite3", input, gcc.table, features, label, gcc.maxDBConns)
	case strings.HasPrefix(input, "mongodb://"):
		logger.Debug("opening MongoDB dataset")
		set, err = bio.ReadMongoSet(ctx, input, gcc.collection, features, label)
	default:
		logger.Debug("reading CSV dataset")
		set, err = bio.ReadCSVSetFromFilePath(input, features, label, gcc.setGenerator())
	}
	if err != nil {
		return nil, exitWith(3, err)
	}
	return set, nil
}
