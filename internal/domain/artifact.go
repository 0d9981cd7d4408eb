package domain

import "time"

// Artifact é um arquivo xlsx gravado em disco para um dataset
type Artifact struct {
	Path       string    `json:"path"`
	DatasetKey string    `json:"dataset_key"`
	DateStamp  string    `json:"date_stamp"`
	ModTime    time.Time `json:"mod_time"`
	Rows       int       `json:"rows"`
}
