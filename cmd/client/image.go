package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"FishBiomass/internal/api/prediction"
	"FishBiomass/pkg/vision"
	"github.com/urfave/cli/v2"
)

func imageCommand() *cli.Command {
	return &cli.Command{
		Name:  "image",
		Usage: "Predict weight and biomass from a photograph and save an annotated copy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "JPEG or PNG photograph"},
			&cli.IntFlag{Name: "quantity", Aliases: []string{"q"}, Value: prediction.DefaultQuantity, Usage: "Number of fish in the tank"},
			&cli.StringFlag{Name: "tank-id", Value: prediction.DefaultImageTankID, Usage: "Tank or batch identifier"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Annotated PNG output (default <file>_annotated.png)"},
			&cli.BoolFlag{Name: "camera", Usage: "Outline in green, as for camera captures"},
		},
		Action: runImage,
	}
}

func runImage(c *cli.Context) error {
	path := c.String("file")
	quantity := c.Int("quantity")
	if quantity < 1 {
		return fmt.Errorf("--quantity must be at least 1, got %d", quantity)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	resp, err := clientFrom(c).PredictImage(c.Context, path, data, quantity, c.String("tank-id"))
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = annotatedPath(path)
	}

	outline := vision.Red
	if c.Bool("camera") {
		outline = vision.Green
	}

	box, err := annotate(data, resp, out, outline)
	if err != nil {
		return fmt.Errorf("annotate image: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Detected (server): %dx%d px\n", resp.ImageWidthPx, resp.ImageHeightPx)
	fmt.Fprintf(w, "Outlined (largest contour): %dx%d px at (%d,%d)\n", box.Width, box.Height, box.X, box.Y)
	fmt.Fprintf(w, "Predicted weight: %.1f g\n", resp.PredictedWeight)
	fmt.Fprintf(w, "Biomass: %.2f kg (%d fish, tank = %s)\n", resp.BiomassKg, resp.Quantity, resp.TankID)
	fmt.Fprintf(w, "Features used: Length1=%.2f Length2=%.2f Length3=%.2f Height=%.2f Width=%.2f\n",
		resp.FeaturesUsed.Length1, resp.FeaturesUsed.Length2, resp.FeaturesUsed.Length3,
		resp.FeaturesUsed.Height, resp.FeaturesUsed.Width)
	fmt.Fprintf(w, "Annotated image: %s\n", out)
	return nil
}

// annotate outlines the largest contour found locally and labels it with the
// server's estimate.
func annotate(data []byte, resp *prediction.ImagePredictionResponse, out string, outline color.RGBA) (vision.BoundingBox, error) {
	ext, err := vision.NewExtractor(vision.DefaultParams())
	if err != nil {
		return vision.BoundingBox{}, err
	}

	img, _, err := ext.Decode(data)
	if err != nil {
		return vision.BoundingBox{}, err
	}

	box, err := ext.Extract(img, vision.ModeSimple)
	if err != nil {
		return vision.BoundingBox{}, err
	}

	png, err := vision.Annotate(img, box, labelLines(box, resp), outline)
	if err != nil {
		return vision.BoundingBox{}, err
	}

	if err := os.WriteFile(out, png, 0o644); err != nil {
		return vision.BoundingBox{}, err
	}
	return box, nil
}

func labelLines(box vision.BoundingBox, resp *prediction.ImagePredictionResponse) []string {
	return []string{
		fmt.Sprintf("%dx%d px", box.Width, box.Height),
		fmt.Sprintf("Weight: %.1f g", resp.PredictedWeight),
		fmt.Sprintf("Biomass: %.2f kg", resp.BiomassKg),
	}
}

func annotatedPath(path string) string {
	dot := strings.LastIndex(path, ".")
	slash := strings.LastIndexAny(path, `/\`)
	if dot <= slash+1 {
		return path + "_annotated.png"
	}
	return path[:dot] + "_annotated.png"
}
