package main

import (
	"flag"
	"log"
	"os"

	"github.com/broconnector/gmw-map/internal/wellimport"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		csvPath = flag.String("csv", "", "path to the well/tube CSV export")
		dbURL   = flag.String("db", os.Getenv("DATABASE_URL"), "DATABASE_URL")
		output  = flag.String("output", "", "optional path for the per-tube report CSV")
		gmn     = flag.String("gmn", "", "monitoring network to link every imported well to, e.g. DINO")
		noBBox  = flag.Bool("no-bbox", false, "import rows outside the Zeeland bounding box too")
	)
	flag.Parse()

	if *csvPath == "" || *dbURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := wellimport.Config{
		CSVPath:     *csvPath,
		DatabaseURL: *dbURL,
		OutputPath:  *output,
		GMN:         *gmn,
		BBox:        wellimport.Zeeland,
	}
	if *noBBox {
		cfg.BBox = wellimport.BBox{MinLon: -180, MinLat: -90, MaxLon: 180, MaxLat: 90}
	}

	if err := wellimport.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
