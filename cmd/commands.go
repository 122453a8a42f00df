package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/studyplan-backend/internal/app"
	"github.com/yungbote/studyplan-backend/internal/domain/planning"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

func loadConfig(configFile string) (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return app.Config{}, nil, err
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return app.Config{}, nil, err
	}
	return cfg, log, nil
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, log, cfg)
			if err != nil {
				log.Error("init app failed", "error", err)
				log.Sync()
				return err
			}
			defer application.Close()
			return application.Run(ctx)
		},
	}
}

type resolveOutput struct {
	Topic             string `json:"topic"`
	Subject           string `json:"subject,omitempty"`
	Found             bool   `json:"found"`
	VideoID           string `json:"video_id,omitempty"`
	EmbedURL          string `json:"embed_url,omitempty"`
	Title             string `json:"title,omitempty"`
	FallbackSearchURL string `json:"fallbackSearchUrl,omitempty"`
}

func newResolveCmd(configFile *string) *cobra.Command {
	var topic, subject string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one topic to an embeddable lecture video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			defer log.Sync()
			ctx := cmd.Context()
			videos, clients, err := app.NewResolver(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer clients.Close()

			res, err := videos.ResolveVideo(ctx, topic, subject)
			if err != nil {
				return err
			}
			out := resolveOutput{
				Topic:    topic,
				Subject:  subject,
				Found:    res.Found,
				VideoID:  res.VideoID,
				EmbedURL: res.EmbedURL,
				Title:    res.Title,
			}
			if !res.Found {
				out.FallbackSearchURL = videos.FallbackSearchURL(topic, subject)
			}
			return printResolve(cmd.OutOrStdout(), out, asJSON)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic to resolve (required)")
	cmd.Flags().StringVar(&subject, "subject", "", "subject context, e.g. the course name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func printResolve(w io.Writer, out resolveOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if !out.Found {
		_, err := fmt.Fprintf(w, "No suitable video found.\nSearch manually: %s\n", out.FallbackSearchURL)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", out.Title, out.EmbedURL)
	return err
}

func newResolvePlanCmd(configFile *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "resolve-plan",
		Short: "Fill videoId/embedUrl of every video topic in a plan JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readPlan(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			defer log.Sync()
			ctx := cmd.Context()
			videos, clients, err := app.NewResolver(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer clients.Close()

			out := videos.ResolvePlan(ctx, doc)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", `plan JSON file ("-" for stdin)`)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readPlan(path string, stdin io.Reader) (planning.LearningPlanDocument, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return planning.LearningPlanDocument{}, fmt.Errorf("read plan: %w", err)
	}
	var doc planning.LearningPlanDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return planning.LearningPlanDocument{}, fmt.Errorf("decode plan: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return planning.LearningPlanDocument{}, err
	}
	return doc, nil
}
