package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"policy-qa-be/internal/bootstrap"
	"policy-qa-be/internal/config"
	"policy-qa-be/pkg/database"

	"github.com/fatih/color"
)

// Interactive terminal chat against the full pipeline. Useful for manual
// testing without the HTTP server.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	pipeline := container.AgentPipeline

	userColor := color.New(color.FgCyan, color.Bold)
	botColor := color.New(color.FgGreen)
	citeColor := color.New(color.FgYellow)

	fmt.Println("Agentic RAG local chat, 输入 exit 退出")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		userColor.Print("\n你: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if q := strings.ToLower(query); q == "exit" || q == "quit" {
			break
		}

		result, err := pipeline.Run(context.Background(), query, "")
		if err != nil {
			color.Red("错误: %v", err)
			continue
		}

		botColor.Printf("\n助手: %s\n", result.Answer)
		if len(result.Citations) > 0 {
			citeColor.Println("\n引用:")
			for _, c := range result.Citations {
				citeColor.Printf("- %s / %s / %s\n", c.DocID, c.ChunkID, c.Source)
			}
		}
	}
}
