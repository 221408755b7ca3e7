package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	detpose "github.com/visionworks/go-detpose"
	"github.com/visionworks/go-detpose/postprocess"
	"github.com/visionworks/go-detpose/preprocess"
	"github.com/visionworks/go-detpose/render"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	imgFile := flag.String("i", "../data/street.jpg", "Image file the detections belong to")
	boxFile := flag.String("b", "../data/boxes.csv", "CSV file of raw box rows (x1,y1,x2,y2,score per class)")
	labelFile := flag.String("l", "../data/coco_80_labels_list.txt", "Text file containing model labels")
	saveFile := flag.String("o", "./out.jpg", "Output JPG file to save resulting image to")
	size := flag.Int("s", 640, "Square model input size the boxes were predicted at")

	flag.Parse()

	classNames, err := detpose.LoadLabels(*labelFile)

	if err != nil {
		log.Fatal("Error loading model labels: ", err)
	}

	// load image
	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}

	defer img.Close()

	// resizer gives us the inverse scale mapping model input coordinates
	// back to the source image
	resizer := preprocess.NewScaledResizer(img.Cols(), img.Rows(), *size)
	defer resizer.Close()

	boxData, err := loadBoxRows(*boxFile)

	if err != nil {
		log.Fatal("Error loading box rows: ", err)
	}

	// suppress overlapping raw predictions per class
	kept, err := postprocess.NMSPerClass(boxData, postprocess.DefaultNMSParams())

	if err != nil {
		log.Fatal("NMS failed: ", err)
	}

	// rescale surviving boxes into source image space
	kept = postprocess.ScaleBoxes(kept, resizer.InverseScale())

	conv := postprocess.NewConverter(postprocess.ConverterParams{
		Mode:       postprocess.BoxesWithOneHotVectors,
		ClassNames: classNames,
	})

	detections, err := conv.Convert(kept)

	if err != nil {
		log.Fatal("Converting detections failed: ", err)
	}

	for _, det := range detections {
		fmt.Printf("%s @ (%.0f %.0f %.0f %.0f) %.3f\n", det.ClassName,
			det.Box.Left, det.Box.Top, det.Box.Right, det.Box.Bottom,
			det.Score)
	}

	render.DetectionBoxes(&img, detections, render.DefaultFont(), 2)

	if ok := gocv.IMWrite(*saveFile, img); !ok {
		log.Fatal("Failed to save image to: ", *saveFile)
	}

	log.Println("Saved object detection result to", *saveFile)
}

// loadBoxRows reads raw box rows from a CSV file, one detection per line
func loadBoxRows(file string) ([][]float32, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	var rows [][]float32

	scanner := bufio.NewScanner(f)

	for scanner.Scan() {

		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		row := make([]float32, 0, len(fields))

		for _, field := range fields {
			val, err := strconv.ParseFloat(strings.TrimSpace(field), 32)

			if err != nil {
				return nil, fmt.Errorf("invalid value %q: %w", field, err)
			}

			row = append(row, float32(val))
		}

		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return rows, nil
}
