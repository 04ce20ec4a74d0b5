package main

import "educreate/internal/domain/models"

type seedFolder struct {
	name     string
	color    string
	children []seedFolder
}

type seedTree struct {
	folderType models.FolderType
	root       seedFolder
}

// seedForest is a small course layout for each folder type. The Archive
// branch of activities reaches the deepest allowed level.
func seedForest() []seedTree {
	deep := seedFolder{name: "Level 9"}
	for i := 8; i >= 2; i-- {
		deep = seedFolder{name: "Level " + string(rune('0'+i)), children: []seedFolder{deep}}
	}

	return []seedTree{
		{
			folderType: models.FolderTypeActivities,
			root: seedFolder{
				name:  "Mathematics",
				color: "#3B82F6",
				children: []seedFolder{
					{name: "Algebra", children: []seedFolder{
						{name: "Linear Equations"},
						{name: "Quadratics", children: []seedFolder{
							{name: "Worksheets"},
							{name: "Quizzes"},
						}},
					}},
					{name: "Geometry", children: []seedFolder{
						{name: "Triangles"},
						{name: "Circles"},
					}},
				},
			},
		},
		{
			folderType: models.FolderTypeActivities,
			root: seedFolder{
				name:     "Archive",
				color:    "#6B7280",
				children: []seedFolder{{name: "Level 1", children: []seedFolder{deep}}},
			},
		},
		{
			folderType: models.FolderTypeActivities,
			root: seedFolder{
				name:  "Languages",
				color: "#F59E0B",
				children: []seedFolder{
					{name: "English", children: []seedFolder{{name: "Vocabulary"}, {name: "Grammar"}}},
					{name: "Spanish"},
				},
			},
		},
		{
			folderType: models.FolderTypeResults,
			root: seedFolder{
				name:  "Term 1",
				color: "#10B981",
				children: []seedFolder{
					{name: "Class 7A", children: []seedFolder{{name: "Algebra Quiz"}}},
					{name: "Class 7B"},
				},
			},
		},
	}
}
