package server

import (
	"github.com/zredjet/bugcurvefit/internal/model"
)

// ModelInfo describes one registry entry for the catalog endpoint.
type ModelInfo struct {
	Name        string   `json:"name"`
	Params      []string `json:"params"`
	MultiSeries bool     `json:"multiSeries"`
}

// modelCatalog lists every registered growth model with its parameter names.
func modelCatalog() []ModelInfo {
	models := model.All()
	infos := make([]ModelInfo, len(models))
	for i, m := range models {
		_, multi := m.(model.MultiSeries)
		infos[i] = ModelInfo{
			Name:        m.Name(),
			Params:      m.ParamNames(),
			MultiSeries: multi,
		}
	}
	return infos
}
