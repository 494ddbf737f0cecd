// Command detect runs the label detection workflow once for a fixed image and
// writes the annotated result to annotated.png.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"label_detection/internal/app/di"
	"label_detection/internal/feature/labeldetection/adapters/render"
	"label_detection/internal/feature/labeldetection/adapters/vision"
	"label_detection/internal/feature/labeldetection/domain/entity"
	"label_detection/internal/feature/labeldetection/usecase"
)

const (
	imageKey   = "6c846184b13cc2564a33aea1fb23810d.jpg"
	bucketName = "arekog"
	regionID   = "us"
	outputPath = "annotated.png"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	req := entity.DetectionRequest{ImageKey: imageKey, BucketName: bucketName, RegionID: regionID}
	if count, ok := run(context.Background(), req); ok {
		fmt.Printf("Labels detected: %d\n", count)
	}
}

// run never returns an error: failures are reported on stdout and ok is false.
func run(ctx context.Context, req entity.DetectionRequest) (int, bool) {
	clients, err := di.NewCloudClients(ctx, vision.Config{RegionID: req.RegionID})
	if err != nil {
		usecase.ReportError(os.Stdout, req, err)
		return 0, false
	}
	defer clients.Close()

	uc := usecase.NewLabelDetectionUsecase(
		usecase.Config{RegionID: clients.Region, MaxLabels: usecase.MaxLabels},
		usecase.Dependencies{
			Detector:  clients.Detector,
			Fetcher:   clients.Fetcher,
			Decoder:   render.NewDecoder(),
			Presenter: render.NewFilePresenter(outputPath),
			Out:       os.Stdout,
		},
	)
	return uc.Execute(ctx, req)
}
