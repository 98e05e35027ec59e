package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/yourname/blackholeescape/internal"
	"github.com/yourname/blackholeescape/internal/dashboard"
	"github.com/yourname/blackholeescape/internal/escapeclient"
	"github.com/yourname/blackholeescape/internal/service"
	"github.com/yourname/blackholeescape/internal/storage"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("BHE")
	v.AutomaticEnv()
	v.SetDefault("server", "http://localhost:8088")
	v.SetDefault("login", os.Getenv("USER"))

	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	server := fs.String("server", v.GetString("server"), "Base URL of the escape service (env BHE_SERVER)")
	login := fs.String("login", v.GetString("login"), "42 login to show (env BHE_LOGIN)")
	scheduleFile := fs.String("schedule", "", "Schedule document (.json, .yaml); the default week is used when empty")
	pdfOut := fs.String("pdf", "", "Also write the weekly report PDF to this path")
	timeout := fs.Duration("timeout", 30*time.Second, "Timeout for the escape report request")
	fs.Parse(os.Args[1:])

	if *login == "" {
		fmt.Fprintln(os.Stderr, "Error: -login is required")
		fs.Usage()
		os.Exit(2)
	}

	doc, err := loadSchedule(*scheduleFile, *login)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading schedule: %v\n", err)
		os.Exit(1)
	}
	if err := service.ValidateScheduleRequest(&service.ScheduleRequest{Profile: doc.Profile, Slots: doc.Slots}); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid schedule %s: %v\n", *scheduleFile, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	report, reportErr := escapeclient.NewClient(*server).Escape(ctx, *login)

	advice := service.Advise(doc.Profile, doc.Slots)
	view := dashboard.View{
		Login:     *login,
		Report:    report,
		ReportErr: reportErr,
		Schedule:  doc,
		Advice:    advice,
	}
	if err := dashboard.Render(os.Stdout, view); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dashboard: %v\n", err)
		os.Exit(1)
	}

	if *pdfOut != "" {
		pdf, err := service.RenderScheduleReport(doc, advice, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering PDF: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*pdfOut, pdf, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PDF: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nReport written to %s\n", *pdfOut)
	}
}

func loadSchedule(path, login string) (*internal.ScheduleDocument, error) {
	if path == "" {
		doc := service.DefaultSchedule(login)
		return &doc, nil
	}
	doc, err := storage.LoadScheduleFile(path)
	if err != nil {
		return nil, err
	}
	if doc.Login == "" {
		doc.Login = login
	}
	return doc, nil
}
