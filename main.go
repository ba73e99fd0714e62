package main

import (
	"context"
	"fmt"
	"os"

	"cafe-telegram/api"
	"cafe-telegram/bot"
	"cafe-telegram/config"
	"cafe-telegram/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	var remote *api.Client
	if cfg.API.DemoMode {
		fmt.Println("Demo mode: no remote service, using the built-in menu.")
	} else {
		remote = api.New(cfg.API.URL)
	}

	b, err := bot.New(cfg, remote)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Staff queue bot (KITCHEN_TOKEN) is optional, like the customer bot it
	// runs its own update loop.
	if cfg.Telegram.KitchenToken != "" {
		var queueAPI services.QueueAPI
		if remote != nil {
			queueAPI = remote
		}
		queue := services.NewQueue(queueAPI, cfg.API.PollInterval)
		kitchen, err := bot.NewKitchenBot(cfg, queue)
		if err != nil {
			fmt.Fprintln(os.Stderr, "kitchen bot:", err)
			os.Exit(1)
		}
		go kitchen.Start(ctx)
		fmt.Println("Kitchen bot started.")
	}

	fmt.Println("Bot started.")
	b.Start()
}
