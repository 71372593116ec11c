//go:build imagick

package main

import (
	_ "github.com/ditherit/ditherit/pkg/img/imagick" // "imagick" image processor
)
