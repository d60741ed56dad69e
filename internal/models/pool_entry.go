package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PoolEntry is a pre-generated reward identity. An entry is consumable
// exactly once: `used` flips false -> true when it is distributed and
// never flips back.
type PoolEntry struct {
	bun.BaseModel `bun:"table:pool_entry"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	ProjectID     string    `bun:"project_id" json:"project_id"`
	Rarity        Rarity    `bun:"rarity" json:"rarity"`
	ImageCID      string    `bun:"image_cid" json:"image_cid"`
	MetadataCID   string    `bun:"metadata_cid" json:"metadata_cid"`
	Used          bool      `bun:"used,default:false" json:"used"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type PoolAvailability struct {
	Rarity         Rarity `json:"rarity"`
	TotalCount     int    `json:"total_count"`
	AvailableCount int    `json:"available_count"`
}
