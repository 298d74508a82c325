package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/crawler"
	"AnsanMomCare/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outDir      string
	boardNames  []string
	baseURL     string
	delay       time.Duration
	concurrency int
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Collect Sangnok-gu medical facility boards into JSON",
	Long: `Crawl the Ansan Sangnok-gu office boards (medical_facilities, pharmacies, clinics)
and write one JSON array per board plus a combined facilities.json.

The combined file is the FACILITIES_PATH input of the API server.`,
	SilenceUsage: true,
	RunE:         runCrawl,
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the configured boards",
	Run: func(cmd *cobra.Command, args []string) {
		for _, b := range crawler.DefaultBoards {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s key=%s bbs_code=%s pages=%d-%d\n",
				b.Name, b.Key, b.BBSCode, b.FirstPage, b.LastPage)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "data", "output directory")
	rootCmd.Flags().StringSliceVarP(&boardNames, "board", "b", nil, "boards to crawl (default: all)")
	rootCmd.Flags().StringVar(&baseURL, "base-url", crawler.DefaultBaseURL, "board list URL")
	rootCmd.Flags().DurationVar(&delay, "delay", 300*time.Millisecond, "wait between page requests")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 1, "boards crawled in parallel")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, error")
	rootCmd.AddCommand(boardsCmd)
}

func selectBoards(names []string) ([]crawler.Board, error) {
	if len(names) == 0 {
		return crawler.DefaultBoards, nil
	}
	boards := make([]crawler.Board, 0, len(names))
	for _, name := range names {
		b, ok := crawler.FindBoard(name)
		if !ok {
			return nil, fmt.Errorf("unknown board %q", name)
		}
		boards = append(boards, b)
	}
	return boards, nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	log := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stderr"})
	defer log.Sync()

	boards, err := selectBoards(boardNames)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := crawler.New(crawler.Options{
		BaseURL:     baseURL,
		Delay:       delay,
		Concurrency: concurrency,
	}, log)

	results, err := c.Run(ctx, boards, outDir)
	if err != nil {
		return err
	}
	total := 0
	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] 총 %d건을 저장했습니다.\n", res.Board.Name, len(res.Records))
		total += len(res.Records)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[combined] 총 %d건을 %s에 저장했습니다.\n", total, crawler.CombinedFile)
	log.Debug("runCrawl(): done", zap.Int("total", total))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
