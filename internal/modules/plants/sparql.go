package plants

import (
	"fmt"
	"strings"

	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

// exactLabelQuery matches a plant whose English label or alias equals text,
// ignoring case.
func exactLabelQuery(text string) string {
	lit := wikidata.EscapeLiteral(strings.ToLower(strings.TrimSpace(text)))
	return fmt.Sprintf(`SELECT ?item WHERE {
  {
    ?item rdfs:label ?label .
    FILTER(LANG(?label) = "en")
    FILTER(LCASE(?label) = "%[1]s"@en)
  } UNION {
    ?item skos:altLabel ?label .
    FILTER(LANG(?label) = "en")
    FILTER(LCASE(?label) = "%[1]s"@en)
  }
  ?item wdt:P31 ?type .
  ?type wdt:P279* wd:%[2]s .
}
LIMIT 1`, lit, rootPlantNode)
}

// broadLabelQuery matches taxa whose English label or alias contains name,
// shortest label first.
func broadLabelQuery(name string) string {
	lit := wikidata.EscapeLiteral(strings.ToLower(strings.TrimSpace(name)))
	return fmt.Sprintf(`SELECT ?item WHERE {
  {
    ?item rdfs:label ?label .
    FILTER(LANG(?label) = "en")
    FILTER(CONTAINS(LCASE(?label), "%[1]s"@en))
  } UNION {
    ?item skos:altLabel ?label .
    FILTER(LANG(?label) = "en")
    FILTER(CONTAINS(LCASE(?label), "%[1]s"@en))
  }
  ?item wdt:P31 ?type .
  ?type wdt:P279* wd:%[2]s .
  ?item wdt:P225 ?scientificName .
}
ORDER BY STRLEN(?label)
LIMIT 1`, lit, rootPlantNode)
}

func membershipQuery(entityID string) string {
	values := make([]string, 0, len(membershipNodes))
	for _, n := range membershipNodes {
		values = append(values, "wd:"+n.QID)
	}
	return fmt.Sprintf(`SELECT ?type WHERE {
  wd:%s wdt:P31 ?class .
  ?class wdt:P279* ?type .
  VALUES ?type { %s }
}
LIMIT 1`, entityID, strings.Join(values, " "))
}

func hierarchyQuery(entityID string) string {
	props := make([]string, 0, len(hierarchyProperties))
	for _, p := range hierarchyProperties {
		props = append(props, "wdt:"+p)
	}
	nodes := make([]string, 0, len(hierarchyNodes))
	for _, n := range hierarchyNodes {
		nodes = append(nodes, "wd:"+n)
	}
	return fmt.Sprintf(`SELECT DISTINCT ?type ?typeLabel WHERE {
  {
    wd:%[1]s wdt:P31/wdt:P279* ?type .
  } UNION {
    wd:%[1]s wdt:P171/wdt:P279* ?type .
  } UNION {
    wd:%[1]s wdt:P105/wdt:P279* ?type .
  } UNION {
    wd:%[1]s ?property ?type .
    VALUES ?property { %[2]s }
  }
  ?type rdfs:label ?typeLabel .
  FILTER(LANG(?typeLabel) = "en")
  FILTER(?type IN (%[3]s))
}
ORDER BY ?type`, entityID, strings.Join(props, " "), strings.Join(nodes, ", "))
}

// validEntityID guards ids interpolated into SPARQL.
func validEntityID(id string) bool {
	if len(id) < 2 || id[0] != 'Q' {
		return false
	}
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
