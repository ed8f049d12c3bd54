package io

import (
	"encoding/json"

	geojson "github.com/paulmach/go.geojson"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// Feature is a geometry with its GeoJSON id and properties.
type Feature struct {
	ID         any
	Geometry   geom.Geometry
	Properties map[string]any
}

// ReadFeatures decodes a FeatureCollection, a single Feature or a bare
// geometry (which becomes one feature without properties).
func ReadFeatures(data []byte) ([]Feature, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode geojson")
	}

	var raw []*geojson.Feature
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode feature collection")
		}
		raw = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode feature")
		}
		raw = []*geojson.Feature{f}
	default:
		g, err := ReadGeoJSON(data)
		if err != nil {
			return nil, err
		}
		return []Feature{{Geometry: g, Properties: map[string]any{}}}, nil
	}

	out := make([]Feature, 0, len(raw))
	for i, f := range raw {
		g, err := fromGeoJSON(f.Geometry)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "feature %d", i)
		}
		props := f.Properties
		if props == nil {
			props = map[string]any{}
		}
		out = append(out, Feature{ID: f.ID, Geometry: g, Properties: props})
	}
	return out, nil
}

// WriteFeatures encodes features as a FeatureCollection.
func WriteFeatures(features []Feature) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gj, err := toGeoJSON(f.Geometry)
		if err != nil {
			return nil, err
		}
		out := geojson.NewFeature(gj)
		out.ID = f.ID
		for k, v := range f.Properties {
			out.SetProperty(k, v)
		}
		fc.AddFeature(out)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode feature collection")
	}
	return data, nil
}
