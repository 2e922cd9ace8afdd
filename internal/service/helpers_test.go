package service

import pgvector "github.com/pgvector/pgvector-go"

func testFeatures() pgvector.Vector {
	return pgvector.NewVector([]float32{2, 150, 80, 30, 100, 32.5, 0.5, 45})
}
