package graph

import (
	"context"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/platform/neo4jdb"
)

type plantGraphParams struct {
	Plants   []map[string]any
	Families []map[string]any
}

func buildPlantGraphParams(records []*types.PlantRecord, now time.Time) plantGraphParams {
	synced := now.UTC().Format(time.RFC3339Nano)
	out := plantGraphParams{
		Plants:   make([]map[string]any, 0, len(records)),
		Families: make([]map[string]any, 0, len(records)),
	}
	for _, r := range records {
		if r == nil || r.ID <= 0 {
			continue
		}
		out.Plants = append(out.Plants, map[string]any{
			"id":              r.ID,
			"common_name":     r.CommonName,
			"scientific_name": r.ScientificName,
			"plant_type":      string(r.PlantType.OrDefault()),
			"image_url":       r.DefaultImageURL,
			"last_updated":    r.LastUpdated.UTC().Format(time.RFC3339Nano),
			"synced_at":       synced,
		})
		if family := strings.TrimSpace(r.Family); family != "" {
			out.Families = append(out.Families, map[string]any{
				"plant_id": r.ID,
				"family":   family,
			})
		}
	}
	return out
}

// UpsertPlantTaxonomyGraph projects records into
// (:Plant)-[:OF_TYPE]->(:PlantType) and (:Plant)-[:IN_FAMILY]->(:PlantFamily).
// A nil client is a no-op.
func UpsertPlantTaxonomyGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, records []*types.PlantRecord) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	params := buildPlantGraphParams(records, time.Now())
	if len(params.Plants) == 0 {
		return nil
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort schema init.
	for _, q := range []string{
		`CREATE CONSTRAINT plant_id_unique IF NOT EXISTS FOR (p:Plant) REQUIRE p.id IS UNIQUE`,
		`CREATE CONSTRAINT plant_type_name_unique IF NOT EXISTS FOR (t:PlantType) REQUIRE t.name IS UNIQUE`,
		`CREATE CONSTRAINT plant_family_name_unique IF NOT EXISTS FOR (f:PlantFamily) REQUIRE f.name IS UNIQUE`,
	} {
		if res, err := session.Run(ctx, q, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $plants AS p
MERGE (n:Plant {id: p.id})
SET n += p
WITH n, p
OPTIONAL MATCH (n)-[old:OF_TYPE|IN_FAMILY]->()
DELETE old
WITH DISTINCT n, p
MERGE (t:PlantType {name: p.plant_type})
MERGE (n)-[:OF_TYPE]->(t)
`, map[string]any{"plants": params.Plants})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(params.Families) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $families AS f
MATCH (n:Plant {id: f.plant_id})
MERGE (fam:PlantFamily {name: f.family})
MERGE (n)-[:IN_FAMILY]->(fam)
`, map[string]any{"families": params.Families})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Info("plant graph synced", "plants", len(params.Plants), "families", len(params.Families))
	}
	return err
}
