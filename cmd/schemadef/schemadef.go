package main

import (
	"fmt"
	"log"
	"os"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/wanghche/schemadef"
	"github.com/wanghche/schemadef/database"
	"github.com/wanghche/schemadef/util"
)

var version string // set via -ldflags

func main() {
	util.InitSlog()
	options := parseOptions(os.Args[1:])
	if err := schemadef.Run(options); err != nil {
		log.Fatal(err)
	}
}

func parseOptions(args []string) *schemadef.Options {
	var opts struct {
		File           string `short:"f" long:"file" description:"YAML plan file describing the baseline and current snapshots" value-name:"plan_file" default:"plan.yml"`
		User           string `short:"U" long:"user" description:"database user" value-name:"user_name" default:"root"`
		Password       string `short:"W" long:"password" description:"database password (the SCHEMADEF_PWD environment variable is also honored)" value-name:"password"`
		PromptPassword bool   `short:"p" long:"prompt-password" description:"prompt for the database password"`
		Host           string `short:"h" long:"host" description:"database host or IP" value-name:"host_name" default:"127.0.0.1"`
		Port           int    `short:"P" long:"port" description:"database port" value-name:"port_num"`
		Socket         string `short:"S" long:"socket" description:"unix domain socket path" value-name:"socket"`
		DbName         string `short:"d" long:"dbname" description:"database name" value-name:"database_name"`
		SslMode        string `long:"ssl-mode" description:"ssl mode" value-name:"ssl_mode"`
		SslCa          string `long:"ssl-ca" description:"CA certificate in PEM format" value-name:"ssl_ca"`
		Apply          bool   `long:"apply" description:"execute the planned DDL against the database"`
		DryRun         bool   `long:"dry-run" description:"print the planned DDL without executing it"`
		Debug          bool   `long:"debug" description:"dump the parsed plan and exit"`
		Version        bool   `long:"version" description:"show the version"`
	}

	parser := flags.NewParser(&opts, flags.HelpFlag)
	parser.Usage = "[OPTIONS]"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if opts.Debug {
		content, err := os.ReadFile(opts.File)
		if err != nil {
			log.Fatal(err)
		}
		plan, err := schemadef.ParsePlan(content)
		if err != nil {
			log.Fatal(err)
		}
		pp.Println(plan)
		os.Exit(0)
	}

	password := opts.Password
	if password == "" {
		password = os.Getenv("SCHEMADEF_PWD")
	}
	if opts.PromptPassword {
		password = readPassword()
	}

	return &schemadef.Options{
		PlanFile: opts.File,
		DryRun:   opts.DryRun,
		Apply:    opts.Apply,
		Config: database.Config{
			DbName:   opts.DbName,
			User:     opts.User,
			Password: password,
			Host:     opts.Host,
			Port:     opts.Port,
			Socket:   opts.Socket,
			SslMode:  opts.SslMode,
			SslCa:    opts.SslCa,
		},
	}
}

func readPassword() string {
	fmt.Print("Enter Password: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println()
	return string(pass)
}
