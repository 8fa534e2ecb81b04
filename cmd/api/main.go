package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"bookstore/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	//.env は無くても良い（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
