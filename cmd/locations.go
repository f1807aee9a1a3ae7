package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sicksense-cli/locator"
	"sicksense-cli/model"
	"sicksense-cli/store"
)

// errUnresolved marks a resolve run that did not end on a valid seat.
var errUnresolved = errors.New("location does not resolve to a seat")

func newLocationsCmd(rt *runtime) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List buildings, rooms and seats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireSession(); err != nil {
				return err
			}
			catalog, err := loadCatalog(cmd.Context(), rt, refresh)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if catalog.Empty() {
				fmt.Fprintln(out, "No locations available.")
				return nil
			}

			rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Building", "Room", "Seat", "Seat ID"}, rowConfigAutoMerge)
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, AutoMerge: true, WidthMax: 24},
				{Number: 2, AutoMerge: true},
			})
			t.Style().Options.SeparateRows = true

			for _, building := range catalog.Buildings() {
				var rows []table.Row
				for _, room := range building.Rooms {
					for _, seat := range room.Seats {
						rows = append(rows, table.Row{building.Building, room.Name, seat.Number, seat.ID})
					}
				}
				t.AppendRows(rows, rowConfigAutoMerge)
				t.AppendSeparator()
			}
			t.Render()

			if err := catalog.Validate(); err != nil {
				fmt.Fprintln(out, "\nCatalog issues:")
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(out, "  - %s\n", line)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the local catalog cache")
	return cmd
}

type resolveOutput struct {
	Selection locator.Selection     `json:"selection"`
	Valid     bool                  `json:"valid"`
	Location  *model.ReportLocation `json:"location,omitempty"`
	Error     string                `json:"error,omitempty"`
}

func newResolveCmd(rt *runtime) *cobra.Command {
	var building, room, seat string
	var refresh bool
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a building, room and seat label to a seat id",
		Long:  `Runs the location picker non-interactively and prints the resulting selection as JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireSession(); err != nil {
				return err
			}
			catalog, err := loadCatalog(cmd.Context(), rt, refresh)
			if err != nil {
				return err
			}

			sel, resolveErr := locator.Resolve(catalog, building, room, strings.TrimSpace(seat))
			result := resolveOutput{Selection: sel, Valid: sel.Valid()}
			if result.Valid {
				loc := sel.ReportLocation()
				result.Location = &loc
			}
			if resolveErr != nil {
				result.Error = resolveErr.Error()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if resolveErr != nil {
				return resolveErr
			}
			if !result.Valid {
				return fmt.Errorf("%w: no seat %q in %s/%s", errUnresolved, seat, building, room)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&building, "building", "", "building name")
	cmd.Flags().StringVar(&room, "room", "", "room name")
	cmd.Flags().StringVar(&seat, "seat", "", "seat label, e.g. A1")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the local catalog cache")
	_ = cmd.MarkFlagRequired("building")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}

// loadCatalog prefers a fresh cache, then the API, then a stale cache.
func loadCatalog(ctx context.Context, rt *runtime, refresh bool) (*locator.Catalog, error) {
	cached, fresh, cacheErr := store.LoadCatalogCache()
	if cacheErr != nil {
		rt.logger.Warn("catalog cache unreadable", "err", cacheErr)
	}
	if fresh && !refresh {
		return locator.NewCatalog(cached), nil
	}

	locations, err := rt.client.GetLocations(ctx)
	if err != nil {
		if len(cached) > 0 {
			rt.logger.Warn("using stale catalog cache", "err", err)
			return locator.NewCatalog(cached), nil
		}
		return nil, err
	}
	if err := store.SaveCatalogCache(locations); err != nil {
		rt.logger.Warn("save catalog cache", "err", err)
	}
	return locator.NewCatalog(locations), nil
}
