package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alchemist-backend/internal/engine"
	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
	"alchemist-backend/internal/priority"
	"alchemist-backend/internal/query"
	"alchemist-backend/internal/rules"
)

// Handler wires the HTTP surface to the in-memory stores and the engines.
// All dataset state lives in the stores for the session; the engines
// themselves are stateless.
type Handler struct {
	datasets *entity.Store
	schemas  *metadata.Registry
	rules    *rules.Store
	weights  *priority.Store
	queries  *query.Engine
	maxRows  int
}

func NewHandler(datasets *entity.Store, schemas *metadata.Registry, ruleStore *rules.Store, weights *priority.Store, maxRows int) *Handler {
	return &Handler{
		datasets: datasets,
		schemas:  schemas,
		rules:    ruleStore,
		weights:  weights,
		queries:  query.New(),
		maxRows:  maxRows,
	}
}

// resolveKind maps the :kind path param (or a synonym) to a dataset kind.
func (h *Handler) resolveKind(c *fiber.Ctx) (metadata.Kind, error) {
	name := c.Params("kind")
	kind, ok := metadata.ParseKind(name)
	if !ok {
		return "", UnknownKindError(name)
	}
	return kind, nil
}

// PutDataset handles PUT /api/datasets/:kind — replace one dataset with
// already-decoded rows (the upload collaborator owns file parsing and
// header normalization).
func (h *Handler) PutDataset(c *fiber.Ctx) error {
	kind, err := h.resolveKind(c)
	if err != nil {
		return err
	}

	var body struct {
		Rows []entity.Row `json:"rows"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InvalidPayloadError("Invalid JSON body")
	}
	if h.maxRows > 0 && len(body.Rows) > h.maxRows {
		return PayloadTooLargeError(fmt.Sprintf("dataset exceeds row limit of %d", h.maxRows))
	}

	e := entity.New(kind, body.Rows)
	h.datasets.Put(e)
	return c.JSON(fiber.Map{"data": fiber.Map{"kind": kind, "rows": len(e.Rows)}})
}

// GetDataset handles GET /api/datasets/:kind.
func (h *Handler) GetDataset(c *fiber.Ctx) error {
	kind, err := h.resolveKind(c)
	if err != nil {
		return err
	}
	e := h.datasets.Get(kind)
	if e == nil {
		return NotFoundError("dataset", string(kind))
	}
	return c.JSON(fiber.Map{"data": e})
}

// ListDatasets handles GET /api/datasets.
func (h *Handler) ListDatasets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.datasets.All()})
}

// ClearDatasets handles DELETE /api/datasets — drop all transient state.
func (h *Handler) ClearDatasets(c *fiber.Ctx) error {
	h.datasets.Clear()
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "cleared"}})
}

// Validate handles POST /api/validate — run the full validation pass over
// every stored dataset and return the annotated entities.
func (h *Handler) Validate(c *fiber.Ctx) error {
	engine.ValidateAll(c.UserContext(), h.datasets, h.schemas)

	all := h.datasets.All()
	summary := make([]fiber.Map, 0, len(all))
	for _, e := range all {
		summary = append(summary, fiber.Map{
			"kind":     e.Kind,
			"errors":   len(e.Errors),
			"warnings": len(e.Warnings),
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"summary": summary, "datasets": all}})
}

// Query handles POST /api/query — evaluate a natural-language query.
func (h *Handler) Query(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InvalidPayloadError("Invalid JSON body")
	}
	if body.Text == "" {
		return ValidationError([]ErrorDetail{{Field: "text", Rule: "required", Message: "text is required"}})
	}

	res := h.queries.Query(c.UserContext(), body.Text, h.datasets.All())
	return c.JSON(fiber.Map{"data": res})
}

// InterpretRule handles POST /api/rules/interpret — map free text to a
// rule skeleton. The skeleton is returned, not stored; the operator
// refines it and submits via POST /api/rules.
func (h *Handler) InterpretRule(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InvalidPayloadError("Invalid JSON body")
	}
	if body.Text == "" {
		return ValidationError([]ErrorDetail{{Field: "text", Rule: "required", Message: "text is required"}})
	}
	return c.JSON(fiber.Map{"data": rules.Interpret(body.Text)})
}

// ListRules handles GET /api/rules.
func (h *Handler) ListRules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.rules.All()})
}

// CreateRule handles POST /api/rules.
func (h *Handler) CreateRule(c *fiber.Ctx) error {
	r, appErr := h.parseRule(c)
	if appErr != nil {
		return appErr
	}
	h.rules.Add(r)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": r})
}

// GetRule handles GET /api/rules/:id.
func (h *Handler) GetRule(c *fiber.Ctx) error {
	r := h.rules.Get(c.Params("id"))
	if r == nil {
		return NotFoundError("rule", c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": r})
}

// UpdateRule handles PUT /api/rules/:id.
func (h *Handler) UpdateRule(c *fiber.Ctx) error {
	r, appErr := h.parseRule(c)
	if appErr != nil {
		return appErr
	}
	if !h.rules.Update(c.Params("id"), r) {
		return NotFoundError("rule", c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": r})
}

// DeleteRule handles DELETE /api/rules/:id.
func (h *Handler) DeleteRule(c *fiber.Ctx) error {
	if !h.rules.Delete(c.Params("id")) {
		return NotFoundError("rule", c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// PreviewRule handles POST /api/rules/:id/preview — evaluate the rule's
// expression over the current datasets.
func (h *Handler) PreviewRule(c *fiber.Ctx) error {
	r := h.rules.Get(c.Params("id"))
	if r == nil {
		return NotFoundError("rule", c.Params("id"))
	}
	matches := rules.PreviewRule(c.UserContext(), r, h.datasets.All())
	return c.JSON(fiber.Map{"data": fiber.Map{"matches": matches}})
}

// parseRule decodes and lints a rule payload.
func (h *Handler) parseRule(c *fiber.Ctx) (*rules.Rule, *AppError) {
	var r rules.Rule
	if err := c.BodyParser(&r); err != nil {
		return nil, InvalidPayloadError("Invalid JSON body")
	}
	if !rules.ValidKind(r.Kind) {
		return nil, ValidationError([]ErrorDetail{{
			Field: "kind", Rule: "enum",
			Message: fmt.Sprintf("unknown rule kind %q", r.Kind),
		}})
	}
	if finding := rules.Lint(&r); finding != nil {
		return nil, ValidationError([]ErrorDetail{{
			Field: finding.Field, Rule: "expression", Message: finding.Message,
		}})
	}
	return &r, nil
}

// GetPriorities handles GET /api/priorities.
func (h *Handler) GetPriorities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.weights.Get()})
}

// PutPriorities handles PUT /api/priorities — whole-profile replace. The
// weights are an opaque pass-through for downstream consumers; only input
// hygiene is enforced here.
func (h *Handler) PutPriorities(c *fiber.Ctx) error {
	var w priority.Weights
	if err := c.BodyParser(&w); err != nil {
		return InvalidPayloadError("Invalid JSON body")
	}

	var details []ErrorDetail
	for name, v := range w {
		if !priority.Known(name) {
			details = append(details, ErrorDetail{Field: name, Rule: "enum", Message: "unknown criteria name"})
		}
		if v < 0 || v > 100 {
			details = append(details, ErrorDetail{Field: name, Rule: "range", Message: "weight must be between 0 and 100"})
		}
	}
	if len(details) > 0 {
		return ValidationError(details)
	}

	h.weights.Set(w)
	return c.JSON(fiber.Map{"data": w})
}
