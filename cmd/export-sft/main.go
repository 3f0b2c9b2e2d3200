package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"policy-qa-be/internal/bootstrap"
	"policy-qa-be/internal/config"
	"policy-qa-be/pkg/agent"
	"policy-qa-be/pkg/database"
)

type evalRow struct {
	Query string `json:"query"`
}

type sftSample struct {
	Query         string           `json:"query"`
	TrajectoryRef string           `json:"trajectory_ref"`
	Answer        string           `json:"answer"`
	Citations     []agent.Citation `json:"citations"`
	UsedTools     []string         `json:"used_tools"`
}

// Runs the agent over an eval set and writes one trajectory sample per
// query. The trace files referenced by trajectory_ref carry the full
// tool-call history.
func main() {
	inputFile := flag.String("input", "train/data/sample_eval.jsonl", "eval set, one {\"query\": ...} per line")
	outputFile := flag.String("output", "train/data/sft_trajectories.jsonl", "output trajectory file")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	pipeline := container.AgentPipeline

	in, err := os.Open(*inputFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open input: %v", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		log.Fatalf("[FATAL] Failed to create output directory: %v", err)
	}
	out, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("[FATAL] Failed to create output: %v", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	count := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var row evalRow
		if err := json.Unmarshal(line, &row); err != nil {
			log.Printf("[WARN] Skipping malformed line: %v", err)
			continue
		}

		result, err := pipeline.Run(context.Background(), row.Query, "")
		if err != nil {
			log.Printf("[WARN] Agent failed on query %q: %v", row.Query, err)
			continue
		}

		sample := sftSample{
			Query:         row.Query,
			TrajectoryRef: result.TraceID,
			Answer:        result.Answer,
			Citations:     result.Citations,
			UsedTools:     result.UsedTools,
		}
		data, err := json.Marshal(sample)
		if err != nil {
			log.Printf("[WARN] Failed to marshal sample: %v", err)
			continue
		}
		w.Write(data)
		w.WriteByte('\n')
		count++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("[FATAL] Failed to read input: %v", err)
	}

	fmt.Printf("saved=%s samples=%d\n", *outputFile, count)
}
