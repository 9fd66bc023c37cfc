package main

import (
	"fmt"
	"os"
)

func handleShopsCommand(args []string) {
	switch args[0] {
	case "seed":
		seedShops()
	case "list":
		listShops()
	default:
		fmt.Printf("Unknown shops command: %s\n", args[0])
		os.Exit(1)
	}
}

func seedShops() {
	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	for _, shop := range cfg.Shops {
		if _, err := database.UpsertShop(shop.Name, shop.BaseURL, ""); err != nil {
			PrintError("Error seeding shop %s: %v\n", shop.Name, err)
			os.Exit(1)
		}
		PrintInfo("Seeded %s (%s)\n", shop.Name, shop.BaseURL)
	}
}

func listShops() {
	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	rows, err := database.Conn().Query(`
		SELECT s.name, s.base_url,
			COUNT(l.id) as listings,
			COUNT(CASE WHEN l.import_enabled = 1 THEN l.id END) as enabled
		FROM shops s
		LEFT JOIN listings l ON l.shop_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`)
	if err != nil {
		PrintError("Error querying shops: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rows.Close() }()

	var rowsData [][]string
	var jsonData []map[string]interface{}

	for rows.Next() {
		var name, baseURL string
		var listings, enabled int
		if err := rows.Scan(&name, &baseURL, &listings, &enabled); err != nil {
			continue
		}
		rowsData = append(rowsData, []string{name, baseURL, fmt.Sprintf("%d", listings), fmt.Sprintf("%d", enabled)})
		jsonData = append(jsonData, map[string]interface{}{
			"name":     name,
			"baseUrl":  baseURL,
			"listings": listings,
			"enabled":  enabled,
		})
	}

	if outputCfg.JSON {
		PrintResult(jsonData)
	} else {
		PrintTable([]string{"SHOP", "BASE URL", "LISTINGS", "ENABLED"}, rowsData)
	}
}
