package codecamp

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SeedOptions configures the initial records created on an empty
// database.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// Seed creates the default admin identity (carrying the SuperUser=True
// claim) and a sample camp when the database is empty. Existing records
// are left alone, so seeding is safe to run on every startup.
func Seed(ctx context.Context, repo RepositoryManager, opts SeedOptions) error {
	if opts.AdminUsername == "" || opts.AdminPassword == "" {
		return goerrors.New("seed requires admin credentials", goerrors.CategoryBadInput)
	}

	if _, err := repo.Users().GetByUsername(ctx, opts.AdminUsername); err == nil {
		return nil
	} else if !goerrors.IsNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to check admin user")
	}

	hash, err := HashPassword(opts.AdminPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to hash admin password")
	}

	email := opts.AdminEmail
	if email == "" {
		email = opts.AdminUsername + "@codecamp.local"
	}

	admin, err := repo.Users().Register(ctx, &User{
		Username:     opts.AdminUsername,
		Email:        email,
		FirstName:    "Site",
		LastName:     "Admin",
		PasswordHash: hash,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to create admin user")
	}

	if err := repo.Users().AddClaim(ctx, admin.ID, "SuperUser", "True"); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to attach SuperUser claim")
	}

	return seedSampleCamp(ctx, repo)
}

func seedSampleCamp(ctx context.Context, repo RepositoryManager) error {
	eventDate := time.Date(2026, time.October, 10, 9, 0, 0, 0, time.UTC)

	camp, err := repo.Camps().CreateCamp(ctx, &Camp{
		Moniker:     "ATL2026",
		Name:        "Atlanta Code Camp",
		Description: "Community code camp",
		Location:    "Atlanta, GA",
		EventDate:   &eventDate,
		Length:      1,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to create sample camp")
	}

	speaker, err := repo.Speakers().CreateSpeaker(ctx, &Speaker{
		CampID:      camp.ID,
		Name:        "Shawn Wildermuth",
		CompanyName: "Wilder Minds",
		Bio:         "Instructor and author",
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to create sample speaker")
	}

	if _, err := repo.Talks().CreateTalk(ctx, &Talk{
		SpeakerID: speaker.ID,
		Title:     "Writing Sane Web APIs",
		Abstract:  "Auth, tokens and resource design",
		Category:  "Web",
		Room:      "245",
	}); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "seed failed to create sample talk")
	}

	return nil
}
