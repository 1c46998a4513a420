package codecamp

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// CampsController is the thin resource tier over the camp repositories.
// No hyperlink generation, no versioning conventions; the auth middleware
// mounted in front of these routes is what this tier exists to exercise.
type CampsController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewCampsController(repo RepositoryManager, logger Logger) *CampsController {
	if logger == nil {
		logger = defLogger{}
	}
	return &CampsController{Repo: repo, Logger: logger}
}

// RegisterCampRoutes mounts the camp resources. Reads are open;
// mutations go behind protect; delete additionally requires the
// SuperUser claim guard.
func (cc *CampsController) RegisterCampRoutes(api fiber.Router, protect fiber.Handler, superuser fiber.Handler) {
	api.Get("/camps", cc.List)
	api.Get("/camps/:moniker", cc.Get)
	api.Get("/camps/:moniker/speakers", cc.Speakers)
	api.Get("/speakers/:id/talks", cc.Talks)

	api.Post("/camps", protect, cc.Create)
	api.Delete("/camps/:moniker", protect, superuser, cc.Delete)
}

func (cc *CampsController) List(c *fiber.Ctx) error {
	records, err := cc.Repo.Camps().List(c.Context())
	if err != nil {
		cc.Logger.Error("Camps list failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(records)
}

func (cc *CampsController) Get(c *fiber.Ctx) error {
	record, err := cc.Repo.Camps().GetByMoniker(c.Context(), c.Params("moniker"))
	if err != nil {
		if errors.IsNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		cc.Logger.Error("Camps get failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(record)
}

func (cc *CampsController) Speakers(c *fiber.Ctx) error {
	camp, err := cc.Repo.Camps().GetByMoniker(c.Context(), c.Params("moniker"))
	if err != nil {
		if errors.IsNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		cc.Logger.Error("Speakers list failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	records, err := cc.Repo.Speakers().ListByCamp(c.Context(), camp.ID)
	if err != nil {
		cc.Logger.Error("Speakers list failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(records)
}

func (cc *CampsController) Talks(c *fiber.Ctx) error {
	speakerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	records, err := cc.Repo.Talks().ListBySpeaker(c.Context(), speakerID)
	if err != nil {
		cc.Logger.Error("Talks list failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(records)
}

// CampPayload is the create body for a camp.
type CampPayload struct {
	Moniker     string     `form:"moniker" json:"moniker"`
	Name        string     `form:"name" json:"name"`
	Description string     `form:"description" json:"description"`
	Location    string     `form:"location" json:"location"`
	EventDate   *time.Time `form:"event_date" json:"event_date"`
	Length      int        `form:"length" json:"length"`
}

// Validate will run validation rules
func (r CampPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Moniker, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Length, validation.Min(1)),
	)
}

func (cc *CampsController) Create(c *fiber.Ctx) error {
	payload := new(CampPayload)

	if err := c.BodyParser(payload); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	length := payload.Length
	if length == 0 {
		length = 1
	}

	record, err := cc.Repo.Camps().CreateCamp(c.Context(), &Camp{
		Moniker:     payload.Moniker,
		Name:        payload.Name,
		Description: payload.Description,
		Location:    payload.Location,
		EventDate:   payload.EventDate,
		Length:      length,
	})
	if err != nil {
		cc.Logger.Error("Camps create failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (cc *CampsController) Delete(c *fiber.Ctx) error {
	err := cc.Repo.Camps().DeleteByMoniker(c.Context(), c.Params("moniker"))
	if err != nil {
		if errors.IsNotFound(err) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		cc.Logger.Error("Camps delete failed", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
