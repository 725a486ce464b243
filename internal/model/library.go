package model

// Folder is a named container owned by a user through the user_folders
// join table.  The json tags match the wire format of the folder
// endpoints.
type Folder struct {
    ID   uint64 `json:"folder_id"`   // folders.folder_id
    Name string `json:"folder_name"` // folders.folder_name
}

// Set is a named, described collection of cards.  A set is linked to
// the folder it was created in through folder_sets.
type Set struct {
    ID          uint64 `json:"set_id"`          // sets.set_id
    Name        string `json:"set_name"`        // sets.set_name
    Description string `json:"set_description"` // sets.set_description
}

// Card is a unit of study content.  Cards are only counted; there is no
// creation path in the application.
type Card struct {
    ID    uint64 // cards.card_id
    Front string // cards.card_front
    Back  string // cards.card_back
}
