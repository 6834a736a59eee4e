package usecase

import (
	"bytes"
	"encoding/json"

	"quotedesk/internal/config"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
	"quotedesk/internal/usecase/interfaces"
)

// estimateDocument is the stored shape of an estimate: the entity's fields
// plus its line items in loosely typed form.
type estimateDocument struct {
	*entities.Estimate
	Items []pricing.RawLineItem `json:"items"`
}

type estimateCodec struct {
	normalizer *pricing.Normalizer
	settings   config.Settings
}

func newEstimateCodec(settings config.Settings) *estimateCodec {
	return &estimateCodec{
		normalizer: pricing.NewNormalizer(settings.FeeKeywords),
		settings:   settings,
	}
}

func (c *estimateCodec) encode(e entities.Estimate) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(estimateDocument{Estimate: &e, Items: pricing.ToRaw(e.Items)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode parses a stored estimate and repairs what the previous save could
// not guarantee. Unknown statuses fall back to quoting and unknown issuers to
// the first roster entry. Every line item is re-normalized.
func (c *estimateCodec) decode(doc interfaces.Document) (entities.Estimate, error) {
	var e entities.Estimate
	wire := estimateDocument{Estimate: &e}
	if err := json.Unmarshal(doc.Body, &wire); err != nil {
		return entities.Estimate{}, ErrCorruptEstimate.WithMessage("estimate %s could not be decoded", doc.Key).Wrap(err)
	}

	// The storage key is the identifier; a hand-edited body id is ignored
	// and rewritten on the next save.
	if doc.Key != "" {
		e.ID = doc.Key
	}
	if !e.Status.Valid() {
		if st, ok := entities.ParseEstimateStatus(string(e.Status)); ok {
			e.Status = st
		} else {
			e.Status = entities.EstimateStatusQuoting
		}
	}
	if !c.settings.IsIssuer(e.Issuer) {
		e.Issuer = c.settings.DefaultIssuer()
	}
	e.Items = c.normalizer.Normalize(wire.Items, e.UseCoefficient)
	return e, nil
}
