package utils

import (
	"math/rand"
	"time"

	"github.com/rentnest/rentnest/models"
	"gorm.io/gorm"
)

const contractReferenceLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateContractReference produces a unique human-readable lease reference
// like "LC-7K2M9QXA".
func GenerateContractReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, contractReferenceLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		reference := "LC-" + string(b)

		var contract models.LeaseContract
		err := tx.Where("reference = ?", reference).First(&contract).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return reference, nil
			}
			return "", err
		}
	}
}
