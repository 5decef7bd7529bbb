package graph

//go:generate mockgen -destination=mock_graph_test.go -package=graph . Views
