package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func handlePricesCommand(args []string) {
	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	if args[0] == "cheapest" {
		limit := 20
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				PrintError("Invalid limit: %s\n", args[1])
				os.Exit(1)
			}
			limit = n
		}

		prices, err := database.CheapestToday(limit)
		if err != nil {
			PrintError("Error querying prices: %v\n", err)
			os.Exit(1)
		}

		var rowsData [][]string
		var jsonData []map[string]interface{}
		for _, p := range prices {
			rowsData = append(rowsData, []string{p.GameName, p.ShopName, formatPrice(p.Price)})
			jsonData = append(jsonData, map[string]interface{}{
				"game":  p.GameName,
				"shop":  p.ShopName,
				"price": p.Price,
			})
		}

		if outputCfg.JSON {
			PrintResult(jsonData)
		} else {
			PrintTable([]string{"GAME", "SHOP", "PRICE"}, rowsData)
		}
		return
	}

	gameName := strings.Join(args, " ")
	prices, err := database.LatestPrices(gameName)
	if err != nil {
		PrintError("Error querying prices: %v\n", err)
		os.Exit(1)
	}
	if len(prices) == 0 {
		PrintInfo("No prices recorded for %s\n", gameName)
		return
	}

	var rowsData [][]string
	var jsonData []map[string]interface{}
	for _, p := range prices {
		rowsData = append(rowsData, []string{
			p.ShopName,
			formatPrice(p.Price),
			p.ObservedAt.Format("2006-01-02"),
		})
		jsonData = append(jsonData, map[string]interface{}{
			"shop":     p.ShopName,
			"price":    p.Price,
			"observed": p.ObservedAt.Format("2006-01-02"),
		})
	}

	if outputCfg.JSON {
		PrintResult(jsonData)
	} else {
		PrintTable([]string{"SHOP", "PRICE", "OBSERVED"}, rowsData)
	}
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
