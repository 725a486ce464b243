package model

// Profile aggregates what the profile page shows for one user: identity
// fields, the folders the user owns and the number of distinct sets and
// cards reachable through them.
type Profile struct {
    User        User
    Folders     []Folder
    FolderCount int
    SetCount    int
    CardCount   int
}
