package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/simshield/simshield-console/pkg/fleetapi"
)

func main() {
	origin := flag.String("origin", "http://localhost:8080", "SimShield backend origin")
	flag.Parse()

	client := fleetapi.NewClient(*origin, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Printf("Checking fleet at %s...\n", *origin)
	sims, err := client.Fleet(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch fleet: %v", err)
	}

	if len(sims) == 0 {
		fmt.Println("No SIMs found")
		return
	}

	fmt.Printf("Found %d SIMs\n\n", len(sims))
	for _, sim := range sims {
		fmt.Printf("  %s  %-10s %-10s risk=%3d (%s)  anomalies=%d\n",
			sim.SimID, sim.DeviceType, sim.Status, sim.RiskScore,
			sim.EffectiveRiskLevel(), sim.AnomalyCount)
	}
}
