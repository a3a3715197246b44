package database

type Stats struct {
	NEOs             int `json:"neos"`
	NamedNEOs        int `json:"named_neos"`
	HazardousNEOs    int `json:"hazardous_neos"`
	Approaches       int `json:"approaches"`
	LinkedApproaches int `json:"linked_approaches"`
}

func (db *NEODatabase) Stats() Stats {
	stats := Stats{
		NEOs:       len(db.neos),
		Approaches: len(db.approaches),
	}

	for _, neo := range db.neos {
		if neo.HasName() {
			stats.NamedNEOs++
		}
		if neo.Hazardous {
			stats.HazardousNEOs++
		}
	}

	for _, ca := range db.approaches {
		if ca.Linked() {
			stats.LinkedApproaches++
		}
	}

	return stats
}
