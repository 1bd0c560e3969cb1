package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"menuforge/internal/agent"
	"menuforge/internal/config"
	"menuforge/internal/connectors"
	gmailconnector "menuforge/internal/connectors/gmail"
	imapconnector "menuforge/internal/connectors/imap"
	"menuforge/internal/listener"
	"menuforge/internal/pipeline"
	"menuforge/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "menu:transform":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input file path")
		inType := fs.String("type", "csv", "csv|xlsx|pdf|html")
		output := fs.String("output", "", "output json path")
		xlsxOut := fs.String("xlsx", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		rows, err := pipeline.ExtractRowsFromInput(*inType, *input)
		must(err)
		menu, _, stats, err := pipeline.Transform(rows)
		must(err)
		must(pipeline.WriteMenuJSON(menu, *output))
		if strings.TrimSpace(*xlsxOut) != "" {
			must(pipeline.ExportMenuToXLSX(menu, *xlsxOut))
		}
		pipeline.PrintStats(stats)
		fmt.Printf("transform done items=%d output=%s\n", len(menu.Items), *output)
	case "mail:fetch":
		db := openDB(cfg)
		defer db.Close()
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		db := openDB(cfg)
		defer db.Close()
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed document id=%d rows=%d items=%d\n", res.DocumentID, res.Rows, res.Items)
			return
		}
		processedDocs, processedRows, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending documents=%d rows=%d\n", processedDocs, processedRows)
	case "mail:listen":
		db := openDB(cfg)
		defer db.Close()
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	case "export:xlsx":
		db := openDB(cfg)
		defer db.Close()
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		documentID := fs.Int("documentId", 0, "internal document id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *documentID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--documentId and --out are required"))
		}
		menu, err := db.GetLatestMenu(*documentID)
		must(err)
		if menu == nil {
			must(fmt.Errorf("no menu for documentId=%d", *documentID))
		}
		must(pipeline.ExportMenuToXLSX(*menu, *out))
		fmt.Printf("exported %d items to %s\n", len(menu.Items), *out)
	case "prompts:seed":
		svc := agent.NewService(cfg)
		must(svc.SeedPrompts(context.Background()))
		fmt.Println("interview prompts seeded")
	case "chat":
		svc := agent.NewService(cfg)
		must(svc.RunChat(context.Background(), os.Stdin))
	case "interview":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		preset := fs.String("preset", agent.DefaultPreset, strings.Join(agent.PresetNames(), "|"))
		maxTurns := fs.Int("max-turns", 3, "max messages per bot")
		topic := fs.String("topic", "", "interview topic (prompted if empty)")
		_ = fs.Parse(os.Args[2:])
		subject := strings.TrimSpace(*topic)
		if subject == "" {
			fmt.Printf("Enter interview topic: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			must(err)
			subject = strings.TrimSpace(line)
			if subject == "" {
				must(fmt.Errorf("no topic provided"))
			}
		}
		svc := agent.NewService(cfg)
		must(svc.RunInterview(context.Background(), *preset, subject, *maxTurns))
	default:
		usage()
		os.Exit(1)
	}
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: menuforge <command>")
	fmt.Println("commands:")
	fmt.Println("  menu:transform --input=menu.csv --type=csv|xlsx|pdf|html --output=menu.json [--xlsx=menu.xlsx]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  export:xlsx --documentId=1 --out=./out/menu.xlsx")
	fmt.Println("  prompts:seed")
	fmt.Println("  chat")
	fmt.Println("  interview --preset=reporter-politician --max-turns=3 [--topic=...]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
