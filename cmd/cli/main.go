package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/username/finbot/src/chatbot"
	"github.com/username/finbot/src/config"
	"github.com/username/finbot/src/logger"
	"github.com/username/finbot/src/parsers"
)

var exitWords = map[string]bool{
	"quit": true,
	"exit": true,
	"bye":  true,
	"q":    true,
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Welcome to the Holdings & Trades Data Chatbot!")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("\nType 'help' for example questions, or 'quit' to exit.")

	ds, err := parsers.LoadDataset(config.Cfg.HoldingsCSVPath, config.Cfg.TradesCSVPath)
	if err != nil {
		logger.L.Error("Failed to load data tables", "error", err)
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nData loaded successfully!\nHoldings: %d records\nTrades: %d records\n\n",
		len(ds.Holdings), len(ds.Trades))

	// No answer cache in the terminal loop; each question is computed fresh.
	engine := chatbot.NewEngine(ds, nil)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())

		if exitWords[strings.ToLower(question)] {
			break
		}
		if question == "" {
			continue
		}

		fmt.Printf("\nBot: %s\n\n", engine.Answer(question))
	}

	fmt.Println("\nThank you for using the chatbot. Goodbye!")
}
