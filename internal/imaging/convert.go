package imaging

import (
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// grayMatFromImage converts a Go image.Image to a single-channel gocv.Mat
// (parallelized by horizontal stripes).
func grayMatFromImage(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)

	// Fast path for images already in grayscale.
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			rowOffset := y * g.Stride
			for x := 0; x < width; x++ {
				mat.SetUCharAt(y, x, g.Pix[rowOffset+x])
			}
		}
		return mat
	}

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				for x := 0; x < width; x++ {
					r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
					// ITU-R BT.601 luma weights, matching OpenCV's RGB→gray.
					luma := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
					mat.SetUCharAt(y, x, uint8(luma))
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat
}

// matToGrayImage converts a single-channel gocv.Mat to a Go *image.Gray.
func matToGrayImage(mat gocv.Mat) *image.Gray {
	h := mat.Rows()
	w := mat.Cols()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		rowOffset := y * img.Stride
		for x := 0; x < w; x++ {
			img.Pix[rowOffset+x] = mat.GetUCharAt(y, x)
		}
	}
	return img
}
