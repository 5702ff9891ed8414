package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogLevels(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setup,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			err := newApp().Run([]string{"test", "--log-level", level})
			require.NoError(t, err, "level %s", level)
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestDocIDDerivation(t *testing.T) {
	derive := func(uid, filename string) string {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(uid+"/"+filename)).String()
	}

	// Same owner and file always produce the same doc_id, so re-ingesting
	// replaces rather than duplicates.
	assert.Equal(t, derive("user-1", "report.pdf"), derive("user-1", "report.pdf"))
	assert.NotEqual(t, derive("user-1", "report.pdf"), derive("user-2", "report.pdf"))
	assert.NotEqual(t, derive("user-1", "report.pdf"), derive("user-1", "notes.md"))
}

func TestIngestRequiresFiles(t *testing.T) {
	app := &cli.App{
		Name: "test",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uid", Required: true},
				},
			},
		},
	}

	err := app.Run([]string{"test", "ingest", "--uid", "user-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
}
