package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/classify"
	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
	"github.com/mvfreire/finsights/internal/gemini"
	"github.com/mvfreire/finsights/internal/insights"
	"github.com/mvfreire/finsights/internal/logger"
	"github.com/mvfreire/finsights/internal/normalize"
	"github.com/mvfreire/finsights/internal/pipeline"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "process":
		runProcess(log)
	case "classify":
		runClassify(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Transaction Insights CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  process   Process a batch file (JSON or tabular text) and print the result")
	fmt.Println("  classify  Classify a single transaction description")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runProcess(log zerolog.Logger) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	file := fs.String("file", "", "Path to the batch file (JSON object, JSON array, or tabular text)")
	useAI := fs.Bool("ai", true, "Attempt AI classification when configured")
	fs.Parse(os.Args[2:])

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		fs.Usage()
		os.Exit(1)
	}

	input, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read input file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg.Pipeline.UseAI = cfg.Pipeline.UseAI && *useAI

	proc := buildProcessor(cfg, log)

	result, errResp := proc.Run(context.Background(), input)
	if errResp != nil {
		printJSON(errResp)
		os.Exit(1)
	}
	printJSON(result)
}

func runClassify(log zerolog.Logger) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	description := fs.String("description", "", "Transaction description")
	amount := fs.Float64("amount", 0, "Transaction amount (expenses negative)")
	fs.Parse(os.Args[2:])

	if *description == "" {
		fmt.Fprintln(os.Stderr, "Error: -description is required")
		fs.Usage()
		os.Exit(1)
	}

	heuristic := classify.NewHeuristic()
	cls := heuristic.Classify(domain.NormalizedTransaction{
		Description: *description,
		Amount:      *amount,
	})

	printJSON(map[string]interface{}{
		"category":    cls.Category,
		"subcategory": cls.Subcategory,
		"confidence":  cls.Confidence,
		"explanation": cls.Explanation,
	})
}

// buildProcessor assembles the pipeline for one CLI invocation, degrading
// to heuristic-only when the model is not configured.
func buildProcessor(cfg config.Config, log zerolog.Logger) *pipeline.Processor {
	ctx := context.Background()

	var gen *gemini.Client
	if cfg.Pipeline.UseAI {
		var err error
		gen, err = gemini.NewClient(ctx, cfg.Gemini)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini unavailable, running heuristic-only")
			gen = nil
		}
	}

	norm := normalize.New(cfg.Pipeline)
	heuristic := classify.NewHeuristic()

	var ai classify.Strategy
	var engineGen insights.TextGenerator
	if gen != nil {
		ai = classify.NewAIClassifier(gen)
		engineGen = gen
	}

	classifier := classify.NewClassifier(ai, heuristic, norm, log)
	engine := insights.NewEngine(engineGen, cfg.Pipeline, log)
	return pipeline.New(norm, classifier, engine, cfg.Pipeline, log)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}
